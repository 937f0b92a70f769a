package types

import "time"

// LectureNote is a lecture resolved to its Markdown content.
type LectureNote struct {
	LectureID    int64  `json:"lecture_id"`
	ChapterTitle string `json:"chapter"`
	ChapterIndex int    `json:"chapter_index"`
	LectureTitle string `json:"lecture"`
	ObjectIndex  int    `json:"lecture_index"`
	Content      string `json:"content"`
	Placeholder  bool   `json:"placeholder,omitempty"`
}

// StoredNoteSet is what a generate run leaves behind for a later download.
type StoredNoteSet struct {
	Key         string        `json:"key"`
	CourseID    int64         `json:"course_id"`
	RunID       string        `json:"run_id"`
	CourseTitle string        `json:"course_title"`
	Chapters    []Chapter     `json:"chapters"`
	Notes       []LectureNote `json:"notes"`
	CreatedAt   time.Time     `json:"created_at"`
}
