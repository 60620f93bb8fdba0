package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerRuleConstant         = "================================================="
	sectionTemplateConstant    = "\n%s\n"
	statusPassPrefixConstant   = "✅ "
	statusFailPrefixConstant   = "❌ "
	statusIndentConstant       = "  "
	errorIndentConstant        = "    "
	detailIndentConstant       = "      "
	errorLabelTemplateConstant = "Error: %s"
	labelTemplateConstant      = "%s:"
	listItemTemplateConstant   = "%s- %s"
	newlineConstant            = "\n"
	magentaColorConstant       = "13"
	blueColorConstant          = "12"
	cyanColorConstant          = "14"
	greenColorConstant         = "10"
	yellowColorConstant        = "11"
	redColorConstant           = "9"
)

// Tone selects the color family used for a line of text.
type Tone int

// Supported tones.
const (
	TonePlain Tone = iota
	ToneGood
	ToneWarning
	ToneBad
	ToneAccent
)

// Console writes styled report lines to an io.Writer.
// Styles degrade to plain text when the writer is not a color-capable terminal.
type Console struct {
	writer       io.Writer
	headerStyle  lipgloss.Style
	sectionStyle lipgloss.Style
	stageStyle   lipgloss.Style
	boldStyle    lipgloss.Style
	toneStyles   map[Tone]lipgloss.Style
}

// NewConsole constructs a Console for the provided writer.
func NewConsole(writer io.Writer) *Console {
	if writer == nil {
		writer = io.Discard
	}
	renderer := lipgloss.NewRenderer(writer)

	return &Console{
		writer:       writer,
		headerStyle:  renderer.NewStyle().Foreground(lipgloss.Color(magentaColorConstant)).Bold(true),
		sectionStyle: renderer.NewStyle().Foreground(lipgloss.Color(blueColorConstant)).Underline(true),
		stageStyle:   renderer.NewStyle().Foreground(lipgloss.Color(cyanColorConstant)),
		boldStyle:    renderer.NewStyle().Bold(true),
		toneStyles: map[Tone]lipgloss.Style{
			TonePlain:   renderer.NewStyle(),
			ToneGood:    renderer.NewStyle().Foreground(lipgloss.Color(greenColorConstant)),
			ToneWarning: renderer.NewStyle().Foreground(lipgloss.Color(yellowColorConstant)),
			ToneBad:     renderer.NewStyle().Foreground(lipgloss.Color(redColorConstant)),
			ToneAccent:  renderer.NewStyle().Foreground(lipgloss.Color(cyanColorConstant)),
		},
	}
}

// Header prints one or more banner lines framed by horizontal rules.
func (console *Console) Header(lines ...string) {
	console.println("")
	console.println(console.headerStyle.Render(headerRuleConstant))
	for _, line := range lines {
		console.println(console.headerStyle.Render(statusIndentConstant + line))
	}
	console.println(console.headerStyle.Render(headerRuleConstant))
}

// Banner prints a single emphasized line, used for report footers.
func (console *Console) Banner(message string) {
	console.println(console.headerStyle.Render(message))
}

// Stage prints a numbered validation stage title.
func (console *Console) Stage(title string) {
	fmt.Fprintf(console.writer, sectionTemplateConstant, console.stageStyle.Render(title))
}

// Section prints an underlined report section title.
func (console *Console) Section(title string) {
	fmt.Fprintf(console.writer, sectionTemplateConstant, console.sectionStyle.Render(fmt.Sprintf(labelTemplateConstant, title)))
}

// Status prints a check outcome with a pass or fail marker.
func (console *Console) Status(message string, success bool) {
	if success {
		console.println(statusIndentConstant + console.toneStyles[ToneGood].Render(statusPassPrefixConstant+message))
		return
	}
	console.println(statusIndentConstant + console.toneStyles[ToneBad].Render(statusFailPrefixConstant+message))
}

// ErrorDetail prints an error message followed by indented details.
func (console *Console) ErrorDetail(message string, details string) {
	console.println(errorIndentConstant + console.toneStyles[ToneBad].Render(fmt.Sprintf(errorLabelTemplateConstant, message)))
	trimmedDetails := strings.TrimSpace(details)
	if len(trimmedDetails) == 0 {
		return
	}
	for _, detailLine := range strings.Split(trimmedDetails, newlineConstant) {
		console.println(console.toneStyles[ToneWarning].Render(detailIndentConstant + detailLine))
	}
}

// Line prints an indented line in the given tone.
func (console *Console) Line(tone Tone, message string) {
	console.println(statusIndentConstant + console.style(tone).Render(message))
}

// Field prints an indented list item with a bold label and a toned value.
func (console *Console) Field(indent int, label string, tone Tone, value string) {
	labelText := console.boldStyle.Render(fmt.Sprintf(labelTemplateConstant, label))
	console.println(fmt.Sprintf(listItemTemplateConstant, strings.Repeat(statusIndentConstant, indent), labelText+" "+console.style(tone).Render(value)))
}

// Item prints an indented list item.
func (console *Console) Item(indent int, text string) {
	console.println(fmt.Sprintf(listItemTemplateConstant, strings.Repeat(statusIndentConstant, indent), text))
}

// Labelled prints an indented bold label followed by plain text.
func (console *Console) Labelled(tone Tone, label string, text string) {
	labelText := console.style(tone).Inherit(console.boldStyle).Render(fmt.Sprintf(labelTemplateConstant, label))
	console.println(statusIndentConstant + labelText + " " + text)
}

// Blank prints an empty line.
func (console *Console) Blank() {
	console.println("")
}

func (console *Console) style(tone Tone) lipgloss.Style {
	if style, exists := console.toneStyles[tone]; exists {
		return style
	}
	return console.toneStyles[TonePlain]
}

func (console *Console) println(text string) {
	fmt.Fprintln(console.writer, text)
}
