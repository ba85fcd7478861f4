package main

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tifrotate/internal/batch"
	"tifrotate/internal/rotation"
)

var counts = message.NewPrinter(language.English)

func renderSummary(s batch.Summary) string {
	g := newGrid(col("Batch"), numCol("Value"))
	g.add("Manifest", s.Manifest)
	g.add("Run", shortID(s.RunID))
	g.add("Rows", counts.Sprintf("%d", s.Rows))
	g.add("Skipped (Split)", counts.Sprintf("%d", s.Skipped))
	g.add("Jobs", counts.Sprintf("%d", s.Total))
	g.add("Succeeded", counts.Sprintf("%d", s.Succeeded))
	g.add("Failed", counts.Sprintf("%d", s.Failed()))
	g.add("Elapsed", s.Elapsed.Round(time.Millisecond).String())
	if s.DryRun {
		g.add("Dry run", yesNo(true))
	}
	return g.render()
}

func renderFailures(failures []rotation.Outcome) string {
	g := newGrid(numCol("Line"), col("File"), col("Rotation"), col("Error"))
	for _, f := range failures {
		g.add(strconv.Itoa(f.Job.Line), f.Job.TargetPath, f.Job.RotationSpec, f.Message())
	}
	return g.render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
