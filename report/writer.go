package report

import (
	"encoding/csv"
	"fmt"
	"ggp/game"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type MatchRecord struct {
	ID        string
	Roles     []game.Role
	Goals     []int // indexed like Roles
	Turns     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of dir named by the current timestamp.
func NewWriter(dir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteMatchRecords(records []MatchRecord) error {
	path := filepath.Join(w.baseDir, "match_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create match records file: %w", err)
	}
	defer f.Close()

	header := []string{"id", "roles", "goals", "turns", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		roles := make([]string, len(record.Roles))
		for i, r := range record.Roles {
			roles[i] = string(r)
		}
		goals := make([]string, len(record.Goals))
		for i, g := range record.Goals {
			goals[i] = strconv.Itoa(g)
		}
		rows = append(rows, []string{
			record.ID,
			strings.Join(roles, " "),
			strings.Join(goals, " "),
			strconv.Itoa(record.Turns),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}

	if err := writeCSV(f, header, rows); err != nil {
		return fmt.Errorf("failed to write match records: %w", err)
	}
	return nil
}

func (w *Writer) WriteDecisionRecords(events []Event) error {
	path := filepath.Join(w.baseDir, "decision_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create decision records file: %w", err)
	}
	defer f.Close()

	header := []string{"match", "turn", "role", "candidates", "chosen", "elapsed_ms", "depth_charges", "failures", "mean_depth", "overridden"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.Match,
			strconv.Itoa(e.Turn),
			string(e.Role),
			joinCandidates(e.Candidates),
			string(e.Chosen),
			strconv.FormatInt(e.Elapsed.Milliseconds(), 10),
			strconv.Itoa(e.Search.DepthCharges),
			strconv.Itoa(e.Search.Failures),
			strconv.FormatFloat(e.Search.MeanDepth, 'f', 2, 64),
			strconv.FormatBool(e.Search.Overridden),
		})
	}

	if err := writeCSV(f, header, rows); err != nil {
		return fmt.Errorf("failed to write decision records: %w", err)
	}
	return nil
}

// writeCSV writes header and rows to out. Rows are buffered, so the error of
// the final flush is the one that reports a failed write.
func writeCSV(out io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func joinCandidates(moves []game.Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = string(m)
	}
	return strings.Join(parts, ";")
}
