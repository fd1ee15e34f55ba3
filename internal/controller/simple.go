package controller

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/symup/symup/internal/model"
)

// SimpleUI implements UI using cobra Command's Println. It is used when
// stdout is not a terminal (CI, pipes) and as the dry-run renderer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayInjectPreview prints one dry-run preview line.
func (s *SimpleUI) DisplayInjectPreview(jsPath m.Path, id m.SourceMapID) {
	s.printf("[dry run] would inject %s into %s\n", id, jsPath)
}

// DisplayInjectSummary prints the injection counts as a table.
func (s *SimpleUI) DisplayInjectSummary(summary m.InjectSummary) {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Scripts", "Maps", "Injected", "Skipped", "Failed"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.Append([]string{
		fmt.Sprintf("%d", summary.ScriptsFound),
		fmt.Sprintf("%d", summary.MapsFound),
		fmt.Sprintf("%d", summary.Injected),
		fmt.Sprintf("%d", summary.Skipped),
		fmt.Sprintf("%d", len(summary.Failures)),
	})
	table.Render()

	s.printf("\n%s", buf.String())

	for _, failure := range summary.Failures {
		s.printf("  failed: %s: %v\n", failure.Path, failure.Err)
	}

	if summary.TempRemoved > 0 {
		s.printf("  removed %d leftover temp file(s)\n", summary.TempRemoved)
	}
}

// DisplayUploadStart announces the batch.
func (s *SimpleUI) DisplayUploadStart(kind m.ArtifactKind, total int) {
	s.printf("uploading %d %s artifact(s)\n", total, kind)
}

// DisplayUploadResult prints one upload outcome.
func (s *SimpleUI) DisplayUploadResult(path m.Path, err error) {
	if err != nil {
		s.printf("  ✗ %s: %v\n", path, err)
		return
	}

	s.printf("  ✓ %s\n", path)
}

// DisplayUploadSummary prints the batch outcome.
func (s *SimpleUI) DisplayUploadSummary(kind m.ArtifactKind, uploaded int, failures []m.FileFailure) {
	if len(failures) == 0 {
		s.printf("uploaded %d %s artifact(s)\n", uploaded, kind)
		return
	}

	s.printf("uploaded %d %s artifact(s), %d failed\n", uploaded, kind, len(failures))
}

// DisplayVerifyWarning surfaces a verifier message.
func (s *SimpleUI) DisplayVerifyWarning(message string) {
	if message == "" {
		return
	}

	s.printf("warning: %s\n", message)
}

// DisplayArtifacts renders the artifact table.
func (s *SimpleUI) DisplayArtifacts(artifacts []m.Artifact) error {
	if len(artifacts) == 0 {
		s.printf("no artifacts found\n")
		return nil
	}

	s.printf("\n%s", renderArtifactTable(artifacts))

	return nil
}

func renderArtifactTable(artifacts []m.Artifact) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"ID", "Kind", "Name", "App", "Version", "Size", "Uploaded"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for _, a := range artifacts {
		table.Append([]string{
			a.ID,
			string(a.Kind),
			a.Name,
			a.AppName,
			a.AppVersion,
			fmt.Sprintf("%d", a.Size),
			a.UploadedAt.Format("2006-01-02 15:04:05"),
		})
	}

	table.SetFooter([]string{"", "", "", "", "", "", fmt.Sprintf("Total %d", len(artifacts))})
	table.Render()

	return buf.String()
}

func (s *SimpleUI) printf(format string, args ...any) {
	s.cmd.Printf(format, args...)
}
