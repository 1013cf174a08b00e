package selfcollision

import (
	"go.viam.com/sdfcollision/logging"
	"go.viam.com/sdfcollision/referenceframe"
	"go.viam.com/sdfcollision/spatialmath"
)

// classification is the partition of the links with geometry, each category in a deterministic order.
type classification struct {
	static  []*linkRecord
	active  []*linkRecord
	dynamic []*linkRecord
}

func classifyLinks(model *referenceframe.Model, logger logging.Logger) classification {
	var c classification
	c.static = identifyStatic(model)
	staticSet := make(map[string]bool, len(c.static))
	for _, r := range c.static {
		staticSet[r.link] = true
	}
	c.active = identifyActive(model, staticSet, logger)
	activeSet := make(map[string]bool, len(c.active))
	for _, r := range c.active {
		activeSet[r.link] = true
	}
	c.dynamic = identifyDynamic(model, staticSet, activeSet)
	return c
}

// identifyStatic walks fixed joints from the root. Every link with geometry it reaches is static, carrying
// its pose relative to the root.
func identifyStatic(model *referenceframe.Model) []*linkRecord {
	type visit struct {
		link   string
		offset spatialmath.Pose
	}
	var static []*linkRecord
	visited := map[string]bool{model.RootLink(): true}
	stack := []visit{{model.RootLink(), spatialmath.NewZeroPose()}}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if link, err := model.Link(curr.link); err == nil && link.HasGeometry() {
			static = append(static, &linkRecord{link: curr.link, offset: curr.offset})
		}
		neighbors := model.FixedNeighbors(curr.link)
		// push in reverse so neighbors are visited in the order they are listed
		for i := len(neighbors) - 1; i >= 0; i-- {
			n := neighbors[i]
			if visited[n.Link] {
				continue
			}
			visited[n.Link] = true
			stack = append(stack, visit{n.Link, spatialmath.Compose(curr.offset, n.Offset)})
		}
	}
	return static
}

// identifyActive collects the links with geometry of every movable group in first-seen order. A group link
// that is already static stays static.
func identifyActive(model *referenceframe.Model, static map[string]bool, logger logging.Logger) []*linkRecord {
	var active []*linkRecord
	seen := map[string]bool{}
	for _, g := range model.Groups() {
		for _, name := range g.Links {
			if seen[name] {
				continue
			}
			seen[name] = true
			link, err := model.Link(name)
			if err != nil || !link.HasGeometry() {
				continue
			}
			// every link on the fixed chain from the root stays static, whatever groups name it
			if static[name] {
				logger.Warnw("link of a movable group is rigidly attached to the root, keeping it static",
					"link", name, "group", g.Name)
				continue
			}
			active = append(active, &linkRecord{link: name, offset: spatialmath.NewZeroPose()})
		}
	}
	return active
}

// identifyDynamic returns the remaining links with geometry in model order.
func identifyDynamic(model *referenceframe.Model, static, active map[string]bool) []*linkRecord {
	var dynamic []*linkRecord
	for _, name := range model.LinksWithCollisionGeometry() {
		if static[name] || active[name] {
			continue
		}
		dynamic = append(dynamic, &linkRecord{link: name, offset: spatialmath.NewZeroPose()})
	}
	return dynamic
}
