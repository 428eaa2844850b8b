package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cwbudde/algo-stemgate/stem"
)

func formatDB(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func formatDuration(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "-"
	}
	return humanize.Bytes(uint64(info.Size()))
}

var reportHeaders = []string{"Stem", "Threshold dB", "Peak before", "Peak after", "RMS before", "RMS after", "Gated", "File", "Size"}

var reportAligns = []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft, alignRight}

func reportRow(rep stem.Report, path string) []string {
	return []string{
		rep.Name,
		formatDB(rep.ThresholdDB),
		formatDB(rep.Before.Peak_dB),
		formatDB(rep.After.Peak_dB),
		formatDB(rep.Before.RMS_dB),
		formatDB(rep.After.RMS_dB),
		formatPercent(rep.GatedFraction),
		path,
		fileSize(path),
	}
}
