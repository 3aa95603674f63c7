package metaformat

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedFlow is returned when flow text has content before the first
// block marker.
var ErrMalformedFlow = errors.New("metaformat: flow content outside of a block")

var (
	flowMarker  = regexp.MustCompile(`^\s*####\s*(.*?)\s*####\s*$`)
	flowEscaped = regexp.MustCompile(`^(\s*)#####(.*?)#####(\s*)$`)
	flowToQuote = regexp.MustCompile(`^(\s*)####(.*?)####(\s*)$`)
)

// FlowBlock is one block of a flow field: its block type and the metaformat
// encoded fields of the block.
type FlowBlock struct {
	Type   string `json:"type"`
	Fields []Pair `json:"fields"`
}

// ParseFlow splits flow text into blocks. Blank lines before the first marker
// are ignored; any other content there is an error.
func ParseFlow(text string) ([]FlowBlock, error) {
	var (
		blocks  []FlowBlock
		current string
		inBlock bool
		buf     []string
	)

	flush := func() {
		if !inBlock {
			return
		}
		blocks = append(blocks, FlowBlock{
			Type:   current,
			Fields: Tokenize(strings.Join(buf, "")),
		})
		buf = nil
	}

	for _, line := range SplitLines(text) {
		stripped := strings.TrimRight(line, "\r\n")
		if m := flowMarker.FindStringSubmatch(stripped); m != nil && !flowEscaped.MatchString(stripped) {
			flush()
			current, inBlock = m[1], true
			continue
		}
		if !inBlock {
			if strings.TrimSpace(stripped) == "" {
				continue
			}
			return nil, ErrMalformedFlow
		}
		buf = append(buf, flowEscaped.ReplaceAllString(stripped, "$1####$2####$3")+"\n")
	}
	flush()
	return blocks, nil
}

// SerializeFlow renders blocks as flow text.
func SerializeFlow(blocks []FlowBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString("#### ")
		b.WriteString(block.Type)
		b.WriteString(" ####\n")
		for _, line := range SplitLines(Serialize(block.Fields)) {
			stripped := strings.TrimRight(line, "\r\n")
			b.WriteString(flowToQuote.ReplaceAllString(stripped, "$1#####$2#####$3"))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
