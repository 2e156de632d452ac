package ntfy

// Message is the body of a notification: TextMessage, MarkdownMessage or FileMessage.
type Message interface {
	encodeMessage(b *publishBody)
}

// TextMessage is a plain text message.
type TextMessage string

// MarkdownMessage is a message clients render as Markdown.
type MarkdownMessage string

// FileMessage attaches the file at URL instead of sending text.
type FileMessage struct {
	Filename string
	URL      string
}

func (m TextMessage) encodeMessage(b *publishBody) {
	text := string(m)
	b.Message = &text
}

func (m MarkdownMessage) encodeMessage(b *publishBody) {
	text := string(m)
	b.Message = &text
	b.Markdown = true
}

func (m FileMessage) encodeMessage(b *publishBody) {
	b.Attach = &m.URL
	b.Filename = &m.Filename
}
