package models

const (
	// HeaderSharerUserID identifies the acting user on every call.
	HeaderSharerUserID = "X-Sharer-User-Id"

	// DefaultPageSize размер страницы, если клиент не передал size
	DefaultPageSize = 10

	// MaxPageSize верхняя граница size
	MaxPageSize = 100

	// RequestDescriptionMax максимальная длина описания запроса
	RequestDescriptionMax = 1024

	// CommentTextMax максимальная длина комментария
	CommentTextMax = 512
)

// Page is a zero-based offset window derived from the from/size query pair.
type Page struct {
	Offset int
	Limit  int
}

// NewPage converts from/size into page-number semantics: the page is
// from/size, so from values inside a page round down to its start.
func NewPage(from, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if from < 0 {
		from = 0
	}
	return Page{Offset: (from / size) * size, Limit: size}
}
