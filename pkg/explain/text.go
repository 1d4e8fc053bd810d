package explain

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"
)

// Text renders the explanation for a terminal. Sections appear in a fixed
// order so two runs over the same result produce identical output.
func (e Explanation) Text() string {
	var b strings.Builder

	if e.Vetoed {
		fmt.Fprintf(&b, "%s, vetoed for %s\n",
			e.Rating.Label, english.Plural(e.Members, "member", ""))
	} else {
		fmt.Fprintf(&b, "%s (%d/5), score %.3f for %s\n",
			e.Rating.Label, e.Rating.Stars, e.Score,
			english.Plural(e.Members, "member", ""))
	}
	b.WriteString(e.Rating.Summary + "\n")

	if len(e.Conflicts) > 0 {
		b.WriteString("\nClimate conflicts\n")
		for _, c := range e.Conflicts {
			b.WriteString("  " + c + "\n")
		}
	}
	if len(e.Climate) > 0 {
		b.WriteString("\nShared climate\n")
		for _, c := range e.Climate {
			b.WriteString("  " + c + "\n")
		}
	}
	if !e.Vetoed {
		b.WriteString("\nRisks\n")
		writeFindings(&b, e.Risks)
		b.WriteString("\nBenefits\n")
		writeFindings(&b, e.Benefits)
	}
	if len(e.Advice) > 0 {
		b.WriteString("\nAdvice\n")
		for _, a := range e.Advice {
			b.WriteString("  " + a + "\n")
		}
	}
	return b.String()
}

func writeFindings(b *strings.Builder, findings []Finding) {
	if len(findings) == 0 {
		b.WriteString("  none detected\n")
		return
	}
	for _, f := range findings {
		b.WriteString("  " + f.Title)
		fmt.Fprintf(b, ", weight %d%%", f.Weight)
		if f.LowConfidence {
			b.WriteString(", low confidence")
		}
		b.WriteString("\n")
		for _, ev := range f.Evidence {
			b.WriteString("    " + ev + "\n")
		}
		if f.Advice != "" {
			b.WriteString("    advice: " + f.Advice + "\n")
		}
	}
}
