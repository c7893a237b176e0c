package domain

import (
	"sort"
	"strings"
)

// Role names an answer-generation persona. Each role pairs a system
// prompt with a context prioritisation rule; the combination is looked
// up by name rather than encoded in separate generator types.
type Role string

// Available answer roles.
const (
	// RoleDefault answers strictly from the provided context.
	RoleDefault Role = "default"

	// RoleSupport answers as a customer support agent.
	RoleSupport Role = "support"

	// RoleSales answers as a sales representative.
	RoleSales Role = "sales"

	// RoleTechnical answers as a technical specialist.
	RoleTechnical Role = "technical"

	// RoleSummary condenses the retrieved context instead of answering
	// a question.
	RoleSummary Role = "summary"
)

// RoleConfig holds everything that distinguishes one answer role from
// another: the system prompt sent to the language model, an optional
// query framing prefix, and the hints used to pull role-relevant
// context to the front of the prompt.
type RoleConfig struct {
	// Name is the role's lookup key.
	Name Role

	// SystemPrompt instructs the language model how to behave.
	SystemPrompt string

	// QueryPrefix, when non-empty, frames the user query
	// ("As a sales representative, respond to: ...").
	QueryPrefix string

	// MetadataRole matches a "role" metadata value; context carrying it
	// is prioritised.
	MetadataRole string

	// SourceHints are substrings matched case-insensitively against the
	// "source" metadata value; matching context is prioritised.
	SourceHints []string

	// EmptyContextNote is shown to the model when retrieval found
	// nothing.
	EmptyContextNote string
}

// Prioritise stably reorders retrieved context so that results matching
// the role's metadata hints come first. Relative order within each
// partition is preserved, so the similarity ranking still decides
// within the prioritised and non-prioritised groups.
func (c RoleConfig) Prioritise(results []SearchResult) []SearchResult {
	if c.MetadataRole == "" && len(c.SourceHints) == 0 {
		return results
	}
	out := make([]SearchResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return c.matches(out[i]) && !c.matches(out[j])
	})
	return out
}

func (c RoleConfig) matches(r SearchResult) bool {
	if c.MetadataRole != "" {
		if v, ok := r.Metadata["role"].(string); ok && v == c.MetadataRole {
			return true
		}
	}
	if len(c.SourceHints) > 0 {
		source, _ := r.Metadata["source"].(string)
		source = strings.ToLower(source)
		for _, hint := range c.SourceHints {
			if source != "" && strings.Contains(source, hint) {
				return true
			}
		}
	}
	return false
}

// roleTable maps role names to their configuration.
var roleTable = map[Role]RoleConfig{
	RoleDefault: {
		Name: RoleDefault,
		SystemPrompt: `You are Curio, an assistant that answers questions from a local knowledge base.
- Only use the information provided in the context to answer the question
- If there is not enough information in the context, say you don't know
- Do not make up information`,
		EmptyContextNote: "No relevant documents found.",
	},
	RoleSupport: {
		Name: RoleSupport,
		SystemPrompt: `You are a Customer Support Agent.
- Focus on helping users solve their problems quickly and effectively
- Use a friendly, helpful, and empathetic tone
- Provide step-by-step solutions when applicable
- Only use information from the provided context to answer questions
- If you don't have enough information, offer to escalate the issue
- Format instructions as numbered steps when providing procedures`,
		QueryPrefix:      "As a customer support agent, help with: ",
		MetadataRole:     "support",
		SourceHints:      []string{"support", "faq", "help"},
		EmptyContextNote: "No relevant customer support documentation found.",
	},
	RoleSales: {
		Name: RoleSales,
		SystemPrompt: `You are a Sales Representative.
- Focus on highlighting product benefits and value propositions
- Be persuasive but honest and accurate
- Provide pricing, feature comparisons, and ROI information when relevant
- Only use information from the provided context
- If you don't have specific information, avoid making up details about products or pricing
- Use confident and positive language`,
		QueryPrefix:      "As a sales representative, respond to: ",
		MetadataRole:     "sales",
		SourceHints:      []string{"price", "product", "sales"},
		EmptyContextNote: "No relevant sales materials found.",
	},
	RoleTechnical: {
		Name: RoleTechnical,
		SystemPrompt: `You are a Technical Specialist.
- Provide accurate, detailed technical information
- Use precise technical terminology appropriate for developers and engineers
- Include code examples, API references, and technical specifications when relevant
- Only use information from the provided context
- If technical details are missing, acknowledge the limitation rather than inventing details
- Organise complex technical explanations in a logical, step-by-step manner`,
		QueryPrefix:      "As a technical specialist, explain: ",
		MetadataRole:     "technical",
		SourceHints:      []string{"api", "docs", "spec", "readme"},
		EmptyContextNote: "No relevant technical documentation found.",
	},
	RoleSummary: {
		Name: RoleSummary,
		SystemPrompt: `You condense documents into brief, faithful summaries.
- Summarise only the content provided in the context
- Capture the key points in a few sentences
- Do not add commentary or information that is not in the context`,
		QueryPrefix:      "Summarise the content relevant to: ",
		EmptyContextNote: "No content available to summarise.",
	},
}

// LookupRole returns the configuration for a role name. The empty name
// resolves to RoleDefault; unknown names return ErrUnknownRole.
func LookupRole(name string) (RoleConfig, error) {
	if name == "" {
		return roleTable[RoleDefault], nil
	}
	cfg, ok := roleTable[Role(name)]
	if !ok {
		return RoleConfig{}, ErrUnknownRole
	}
	return cfg, nil
}

// RoleNames returns the available role names, sorted.
func RoleNames() []string {
	names := make([]string, 0, len(roleTable))
	for name := range roleTable {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
