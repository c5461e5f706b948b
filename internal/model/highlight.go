package model

// Point is a pixel position. For highlights it is in document space,
// i.e. already adjusted by the viewer's vertical scroll offset.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Highlight is a text selection recorded against a PDF, identified by its URL.
type Highlight struct {
	Text  string `json:"text"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
	PDF   string `json:"pdf"`
}
