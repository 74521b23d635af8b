// Package formatter renders tracks and recommendations as CSV, Markdown or plain text for the CLI
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV, FormatMarkdown, FormatText:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (json, csv, markdown, text)", shared.ErrInvalidInput, s)
	}
}

var trackHeaders = []string{"ID", "Name", "Artist", "Danceability", "Energy", "Valence", "Tempo"}

func featureFields(f *models.AudioFeatures) []string {
	if f == nil {
		return []string{"", "", "", ""}
	}
	return []string{
		strconv.FormatFloat(f.Danceability, 'f', 3, 64),
		strconv.FormatFloat(f.Energy, 'f', 3, 64),
		strconv.FormatFloat(f.Valence, 'f', 3, 64),
		strconv.FormatFloat(f.Tempo, 'f', 1, 64),
	}
}

// TracksToCSV converts tracks to CSV with columns: ID, Name, Artist, Danceability, Energy, Valence, Tempo
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, append([]string{t.ID, t.Name, t.Artist}, featureFields(t.AudioFeatures)...))
	}
	return writeCSV(trackHeaders, rows)
}

// RecommendationsToCSV converts recommendations to CSV with the track columns plus Confidence and Explanations.
//
// Explanations are joined with "; ".
func RecommendationsToCSV(recs []models.Recommendation) ([]byte, error) {
	headers := append(append([]string{}, trackHeaders...), "Confidence", "Explanations")

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		row := append([]string{r.ID, r.Name, r.Artist}, featureFields(r.AudioFeatures)...)
		row = append(row, strconv.FormatFloat(r.Confidence, 'f', 1, 64), strings.Join(r.Explanations, "; "))
		rows = append(rows, row)
	}
	return writeCSV(headers, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToMarkdown converts tracks to a Markdown table under the given title
func TracksToMarkdown(title string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(tracks))

	buf.WriteString("| # | Track | Energy | Mood | Tempo |\n")
	buf.WriteString("|---|-------|--------|------|-------|\n")
	for i, t := range tracks {
		energy, valence, tempo := "-", "-", "-"
		if f := t.AudioFeatures; f != nil {
			energy = fmt.Sprintf("%.0f%%", f.Energy*100)
			valence = fmt.Sprintf("%.0f%%", f.Valence*100)
			tempo = fmt.Sprintf("%.0f BPM", f.Tempo)
		}
		fmt.Fprintf(&buf, "| %d | %s - %s | %s | %s | %s |\n", i+1, escapeCell(t.Artist), escapeCell(t.Name), energy, valence, tempo)
	}

	return buf.Bytes(), nil
}

// RecommendationsToMarkdown converts recommendations to a numbered Markdown list with explanations nested under each entry
func RecommendationsToMarkdown(recs []models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Recommendations\n\n")
	for i, r := range recs {
		fmt.Fprintf(&buf, "%d. **%s - %s** (%.1f%%)\n", i+1, r.Artist, r.Name, r.Confidence)
		for _, e := range r.Explanations {
			fmt.Fprintf(&buf, "   - %s\n", e)
		}
		if r.PreviewURL != nil {
			fmt.Fprintf(&buf, "   - [Preview](%s)\n", *r.PreviewURL)
		}
	}

	return buf.Bytes(), nil
}

// TracksToText converts tracks to plain text format
func TracksToText(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(tracks))
	for i, t := range tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, t.Artist, t.Name)
	}

	return buf.Bytes(), nil
}

// RecommendationsToText converts recommendations to plain text format
func RecommendationsToText(recs []models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Recommendations: %d\n\n", len(recs))
	for i, r := range recs {
		fmt.Fprintf(&buf, "%d. %s - %s [%.1f]\n", i+1, r.Artist, r.Name, r.Confidence)
		fmt.Fprintf(&buf, "   %s\n", strings.Join(r.Explanations, ", "))
	}

	return buf.Bytes(), nil
}

// Tracks renders tracks in format. JSON is handled by the caller.
func Tracks(format Format, title string, tracks []models.Track) ([]byte, error) {
	switch format {
	case FormatCSV:
		return TracksToCSV(tracks)
	case FormatMarkdown:
		return TracksToMarkdown(title, tracks)
	case FormatText:
		return TracksToText(tracks)
	default:
		return nil, fmt.Errorf("%w: format %q", shared.ErrInvalidInput, format)
	}
}

// Recommendations renders recommendations in format. JSON is handled by the caller.
func Recommendations(format Format, recs []models.Recommendation) ([]byte, error) {
	switch format {
	case FormatCSV:
		return RecommendationsToCSV(recs)
	case FormatMarkdown:
		return RecommendationsToMarkdown(recs)
	case FormatText:
		return RecommendationsToText(recs)
	default:
		return nil, fmt.Errorf("%w: format %q", shared.ErrInvalidInput, format)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
