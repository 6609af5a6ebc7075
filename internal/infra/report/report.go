// Package report renders benchmark reports and publishes them to blob storage.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"techmarket/internal/benchmark"
	"techmarket/internal/domain/query"
	"techmarket/internal/errors"

	"github.com/dustin/go-humanize"
	"gocloud.dev/blob"
	// Registers the file:// bucket scheme.
	_ "gocloud.dev/blob/fileblob"
	// Registers the mem:// bucket scheme.
	_ "gocloud.dev/blob/memblob"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Render writes the report in the given format.
func Render(w io.Writer, r *benchmark.Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return errors.WithStack(enc.Encode(r))
	case FormatText, "":
		return renderText(w, r)
	default:
		return errors.Errorf("unknown report format %q", format)
	}
}

func renderText(w io.Writer, r *benchmark.Report) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Benchmark %s  seed=%d  runs=%d\n", r.GeneratedAt.Format(time.RFC3339), r.Seed, r.Runs)
	fmt.Fprintf(&b, "Dataset: %s customers, %s products, %s orders\n\n",
		humanize.Comma(int64(r.Counts.Customers)),
		humanize.Comma(int64(r.Counts.Products)),
		humanize.Comma(int64(r.Counts.Orders)))

	for _, be := range r.Backends {
		fmt.Fprintf(&b, "== %s (%s)", be.Backend, be.Driver)
		if be.LoadDuration > 0 {
			fmt.Fprintf(&b, "  load %s", be.LoadDuration.Round(time.Millisecond))
		}
		b.WriteString("\n")
		if be.Error != "" {
			fmt.Fprintf(&b, "   failed: %s\n\n", be.Error)

			continue
		}

		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "   Q\tmean ms\trows\tflags\tsample row")
		for _, res := range be.Results {
			if res.Error != "" {
				fmt.Fprintf(tw, "   %s\t-\t-\tfailed\t%s\n", res.Question, res.Error)

				continue
			}
			fmt.Fprintf(tw, "   %s\t%s\t%d\t%s\t%s\n",
				res.Question,
				humanize.FtoaWithDigits(res.MeanMillis, 3),
				res.RowCount,
				flags(res),
				formatRow(res.Representative),
			)
		}
		if err := tw.Flush(); err != nil {
			return errors.WithStack(err)
		}
		b.WriteString("\n")
	}

	_, err := w.Write(b.Bytes())

	return errors.WithStack(err)
}

func flags(res benchmark.Result) string {
	var f []string
	if !res.Exact {
		f = append(f, "approx")
	}
	if res.ClientSide {
		f = append(f, "client")
	}
	if len(f) == 0 {
		return "-"
	}

	return strings.Join(f, ",")
}

func formatRow(row query.Row) string {
	if len(row) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(row))
	for _, k := range row.Keys() {
		parts = append(parts, k+"="+formatValue(row[k]))
	}

	return strings.Join(parts, " ")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format("2006-01-02T15:04:05.000Z")
	case float64:
		return fmt.Sprintf("%.2f", val)
	case map[string]any:
		return "{" + formatRow(query.Row(val)) + "}"
	case []any:
		return fmt.Sprintf("[%d items]", len(val))
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Key derives an object name from the report time when none is configured.
func Key(r *benchmark.Report, format string) string {
	ext := "txt"
	if format == FormatJSON {
		ext = "json"
	}

	return fmt.Sprintf("techmarket-%s.%s", r.GeneratedAt.UTC().Format("20060102T150405Z"), ext)
}

// Publish writes the rendered report to key inside the bucket at bucketURL,
// e.g. "file:///var/reports" or "mem://".
func Publish(ctx context.Context, bucketURL, key string, r *benchmark.Report, format string) error {
	var buf bytes.Buffer
	if err := Render(&buf, r, format); err != nil {
		return err
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return errors.Wrapf(err, "open bucket %s", bucketURL)
	}
	defer bucket.Close()

	contentType := "text/plain; charset=utf-8"
	if format == FormatJSON {
		contentType = "application/json"
	}
	if err := bucket.WriteAll(ctx, key, buf.Bytes(), &blob.WriterOptions{ContentType: contentType}); err != nil {
		return errors.Wrapf(err, "write %s", key)
	}

	return nil
}
