package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
)

// NewsRecord is the schema of the daily news parquet archive.
type NewsRecord struct {
	Symbol   string `parquet:"symbol"`
	Source   string `parquet:"source"`
	Time     int64  `parquet:"time,timestamp(millisecond)"`
	Headline string `parquet:"headline"`
	Content  string `parquet:"content"`
}

// ArchiveSource reads headlines from <dataDir>/us/news/<date>.parquet.
type ArchiveSource struct {
	dataDir string
	log     *slog.Logger
	now     func() time.Time
}

// NewArchiveSource returns a source over the archive rooted at dataDir.
func NewArchiveSource(dataDir string, log *slog.Logger) *ArchiveSource {
	return &ArchiveSource{dataDir: dataDir, log: log, now: time.Now}
}

// Name implements Source.
func (s *ArchiveSource) Name() string { return SourceArchive }

// ArchivePath returns the archive file for the given date.
func ArchivePath(dataDir, date string) string {
	return filepath.Join(dataDir, "us", "news", date+".parquet")
}

// Fetch implements Source. Files are named by exchange-local date, so the
// day before since is read too; missing days are skipped.
func (s *ArchiveSource) Fetch(ctx context.Context, since time.Time) ([]Post, error) {
	first := since.UTC().AddDate(0, 0, -1)
	first = time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	last := s.now().UTC()

	var posts []Post
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := day.Format("2006-01-02")
		path := ArchivePath(s.dataDir, date)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		records, err := parquet.ReadFile[NewsRecord](path)
		if err != nil {
			return nil, fmt.Errorf("reading news archive %s: %w", path, err)
		}
		s.log.Debug("read news archive", "date", date, "records", len(records))

		for _, r := range records {
			if r.Headline == "" {
				continue
			}
			// The archive stores a headline once per related symbol; the ID
			// lets the scanner merge the copies.
			posts = append(posts, Post{
				ID:        strconv.FormatInt(r.Time, 10) + ":" + r.Headline,
				Title:     r.Headline,
				CreatedAt: time.UnixMilli(r.Time).UTC(),
				Source:    SourceArchive,
			})
		}
	}
	return FilterSince(posts, since), nil
}
