package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"gijiroku/internal/store"
)

// CSV renders list rows as a download with the same columns as the list view.
func CSV(rows []store.ListRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ID", "タイトル", "会議日", "参加者", "作成日時"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			row.ID,
			row.Title,
			row.MeetingDate,
			strings.Join(row.Participants, ", "),
			row.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
