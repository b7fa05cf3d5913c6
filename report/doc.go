// Package report writes the result of a health run to disk.
//
// A run leaves a working directory with the log file, the command
// transcripts and the framebuffer snapshot. Write adds summary.yaml to it
// and packs the whole directory into gfx_health_report.tar.gz:
//
//	s := report.New(env.Facts, results)
//	path, err := report.Write(s, tempDir, reportDir)
package report
