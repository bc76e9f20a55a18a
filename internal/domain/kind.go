package domain

// Kind discriminates the document types served by universal search.
type Kind string

const (
	KindWriting    Kind = "writing"
	KindRepository Kind = "repository"
)

func (k Kind) String() string {
	return string(k)
}
