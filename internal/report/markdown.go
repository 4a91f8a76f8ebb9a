package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/leapstack-labs/leapprofile/internal/profile"
)

// Markdown renders the HTML report and converts it to Markdown.
func Markdown(ctx context.Context, w io.Writer, rep *profile.Report) error {
	var buf bytes.Buffer
	if err := HTML(ctx, &buf, rep); err != nil {
		return err
	}

	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return fmt.Errorf("failed to convert report to markdown: %w", err)
	}
	if _, err := io.WriteString(w, md+"\n"); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}
