// Package archive lays lecture notes out as a chapter/lecture tree and packs
// them into a ZIP stream.
package archive

import (
	"archive/zip"
	"compress/flate"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"

	"github.com/yungbote/coursenotes-backend/internal/types"
)

const minIndexWidth = 2

// Entry is one file in the archive.
type Entry struct {
	Path    string
	Content string
}

// RootName is the top-level folder (and download file stem) for a run.
func RootName(courseTitle, runID string) string {
	return Sanitize(courseTitle) + "-" + runID
}

// Plan computes the ordered archive entries. Notes are grouped by chapter
// index and ordered by (chapter index, lecture index); chapters without notes
// never appear. Chapter titles come from chapters when the index is known
// there, otherwise from the note itself.
func Plan(courseTitle, runID string, chapters []types.Chapter, notes []types.LectureNote) []Entry {
	if len(notes) == 0 {
		return nil
	}
	titles := make(map[int]string, len(chapters))
	for _, ch := range chapters {
		titles[ch.ObjectIndex] = ch.Title
	}

	sorted := append([]types.LectureNote(nil), notes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ChapterIndex != sorted[j].ChapterIndex {
			return sorted[i].ChapterIndex < sorted[j].ChapterIndex
		}
		return sorted[i].ObjectIndex < sorted[j].ObjectIndex
	})

	maxChapter := 0
	maxLecture := map[int]int{}
	for _, n := range sorted {
		if n.ChapterIndex > maxChapter {
			maxChapter = n.ChapterIndex
		}
		if n.ObjectIndex > maxLecture[n.ChapterIndex] {
			maxLecture[n.ChapterIndex] = n.ObjectIndex
		}
	}
	chapterWidth := indexWidth(maxChapter)

	root := RootName(courseTitle, runID)
	entries := make([]Entry, 0, len(sorted))
	for _, n := range sorted {
		chTitle, ok := titles[n.ChapterIndex]
		if !ok {
			chTitle = n.ChapterTitle
		}
		dir := formatIndex(n.ChapterIndex, chapterWidth) + "-" + Sanitize(chTitle)
		file := formatIndex(n.ObjectIndex, indexWidth(maxLecture[n.ChapterIndex])) + "-" + Sanitize(n.LectureTitle) + ".md"
		entries = append(entries, Entry{
			Path:    path.Join(root, dir, file),
			Content: n.Content,
		})
	}
	return entries
}

// Write streams the planned archive to w with maximum deflate compression.
func Write(w io.Writer, courseTitle, runID string, chapters []types.Chapter, notes []types.LectureNote) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	for _, e := range Plan(courseTitle, runID, chapters, notes) {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.Path, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("create %s: %w", e.Path, err)
		}
		if _, err := io.WriteString(fw, e.Content); err != nil {
			return fmt.Errorf("write %s: %w", e.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

// indexWidth never goes below two digits so lexicographic order matches
// numeric order for every index in the level.
func indexWidth(max int) int {
	w := len(strconv.Itoa(max))
	if w < minIndexWidth {
		return minIndexWidth
	}
	return w
}

func formatIndex(i, width int) string {
	return fmt.Sprintf("%0*d", width, i)
}
