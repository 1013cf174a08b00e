package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/sdfcollision/selfcollision"
)

var (
	colliding = color.New(color.FgRed, color.Bold)
	separated = color.New(color.FgGreen)
	faint     = color.New(color.Faint)
)

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// formatDistance colors penetrations red and marks entries that saw nothing within the band.
func formatDistance(d selfcollision.DistanceResultsData, background float64) string {
	switch {
	case d.LinkNames[1] == "" && d.MinDistance >= background:
		return faint.Sprintf("%s: nothing within %.3f", d.LinkNames[0], background)
	case d.MinDistance < 0:
		return colliding.Sprint(d.String())
	default:
		return separated.Sprint(d.String())
	}
}

func distanceTable(res *selfcollision.DistanceResult, background float64) string {
	infos := selfcollision.DistanceInfoMap(res, nil)
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Link", "Nearest", "Distance", "Avoidance"})
	for i, e := range res.Entries {
		distance := fmt.Sprintf("%.4f", e.MinDistance)
		switch {
		case e.MinDistance < 0:
			distance = colliding.Sprint(distance)
		case e.MinDistance >= background:
			distance = faint.Sprint(distance)
		}
		avoidance := ""
		if info := infos[e.LinkNames[0]]; info.HasAvoidance {
			v := info.AvoidanceVector
			avoidance = fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", v.X, v.Y, v.Z)
		}
		t.AppendRow(table.Row{i + 1, e.LinkNames[0], e.LinkNames[1], distance, avoidance})
	}
	return t.Render()
}

func linkTable(infos []selfcollision.LinkInfo) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Link", "Category", "Parent Joint", "Spheres"})
	for i, info := range infos {
		spheres := ""
		if info.Category == selfcollision.Active {
			spheres = fmt.Sprintf("%d", info.Spheres)
		}
		t.AppendRow(table.Row{i + 1, info.Name, info.Category.String(), info.ParentJoint, spheres})
	}
	return t.Render()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
