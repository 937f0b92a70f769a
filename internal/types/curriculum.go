package types

const (
	ItemClassChapter  = "chapter"
	ItemClassLecture  = "lecture"
	ItemClassQuiz     = "quiz"
	ItemClassPractice = "practice"
)

// CurriculumItem is one entry of the flat, pre-ordered upstream curriculum list.
// Only chapters and lectures are meaningful to the notes pipeline.
type CurriculumItem struct {
	Class       string `json:"_class"`
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ObjectIndex int    `json:"object_index"`
}

type Lecture struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ObjectIndex int    `json:"object_index"`
}

type Chapter struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ObjectIndex int       `json:"object_index"`
	Lectures    []Lecture `json:"lectures"`
}

// FindLecture locates a lecture and its owning chapter.
func FindLecture(chapters []Chapter, lectureID int64) (Chapter, Lecture, bool) {
	for _, ch := range chapters {
		for _, lec := range ch.Lectures {
			if lec.ID == lectureID {
				return ch, lec, true
			}
		}
	}
	return Chapter{}, Lecture{}, false
}

// Caption is one caption asset attached to a lecture.
type Caption struct {
	ID       int64  `json:"id"`
	Title    string `json:"title,omitempty"`
	FileName string `json:"file_name,omitempty"`
	LocaleID string `json:"locale_id"`
	Source   string `json:"source,omitempty"`
	Status   int    `json:"status"`
	URL      string `json:"url"`
}

const (
	CaptionLocaleEnglish = "en_US"
	CaptionStatusReady   = 1
)

// SelectEnglishCaption picks the first ready en_US caption with a URL, in upstream order.
func SelectEnglishCaption(captions []Caption) (Caption, bool) {
	for _, c := range captions {
		if c.LocaleID == CaptionLocaleEnglish && c.Status == CaptionStatusReady && c.URL != "" {
			return c, true
		}
	}
	return Caption{}, false
}
