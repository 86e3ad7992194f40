package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/okian/cohortinsights/internal/domain/model"
)

//go:embed templates/scale.md
var scaleSystem string

//go:embed templates/grow.md
var growSystem string

// SystemPrompt returns the system instruction of the program type.
func SystemPrompt(pt model.ProgramType) string {
	if pt == model.ProgramGrow {
		return strings.TrimSpace(growSystem)
	}
	return strings.TrimSpace(scaleSystem)
}

// ContextPrompt asks for publicly available background on a company.
func ContextPrompt(companyName string) string {
	return fmt.Sprintf("Search the web for recent, publicly available information about %q: industry, size, "+
		"strategic priorities, recent news, and workforce or culture initiatives. "+
		"Summarize the findings in at most five short bullet points. "+
		"If nothing reliable is found, answer exactly: %s", companyName, NoContext)
}

// GenerationPrompt combines internal program data with external context.
func GenerationPrompt(companyName, internalData, companyContext, programPhase string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", companyName)
	if programPhase != "" {
		fmt.Fprintf(&b, "Program phase: %s\n", programPhase)
	}
	b.WriteString("\nINTERNAL PROGRAM DATA:\n")
	b.WriteString(strings.TrimSpace(internalData))
	b.WriteString("\n\nEXTERNAL COMPANY CONTEXT:\n")
	b.WriteString(strings.TrimSpace(companyContext))
	b.WriteString("\n")
	return b.String()
}
