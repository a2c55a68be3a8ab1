// Package definition binds declarative agent and orchestrator records to
// runnable agents. Records are the decoded form of whatever store the
// embedding application uses; this package renders their parameterized
// prompts, resolves their tool selections against a catalogue and produces
// immutable agent definitions.
package definition

import (
	"fmt"
	"strings"

	"github.com/relayworks/agentrelay/agent"
	"github.com/relayworks/agentrelay/logging"
	"github.com/relayworks/agentrelay/runner"
	"github.com/relayworks/agentrelay/tool"
)

// PromptField declares one placeholder of a parameterized system prompt.
type PromptField struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
	Required     bool   `json:"required"`
}

// AgentRecord is the declarative shape of a single agent.
type AgentRecord struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	SystemPrompt  string        `json:"system_prompt"`
	PromptFields  []PromptField `json:"prompt_fields,omitempty"`
	SelectedTools []string      `json:"selected_tools,omitempty"`
	Handoff       bool          `json:"handoff,omitempty"`
}

// OrchestratorRecord is the declarative shape of an orchestrator: an agent
// whose only capabilities are its member agents, exposed to it as tools.
type OrchestratorRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SystemPrompt string   `json:"system_prompt"`
	AgentIDs     []string `json:"agent_ids"`
}

// AgentLookup resolves an agent record by ID. The orchestrator builder uses
// it to materialize member agents.
type AgentLookup func(id string) (AgentRecord, bool)

// BuildOptions configures record binding.
type BuildOptions struct {
	// PromptValues supplies values for the record's prompt fields.
	PromptValues map[string]string

	// Hooks is attached to every built agent.
	Hooks agent.Hooks

	// Logger receives binding diagnostics (skipped tool names, member
	// resolution). Defaults to no-op.
	Logger logging.Logger
}

// RenderPrompt substitutes `{field}` placeholders in the record's system
// prompt. A field takes its supplied value, falling back to its declared
// default; a required field with neither is an error. Placeholders without a
// declared field are left untouched.
func RenderPrompt(rec AgentRecord, values map[string]string) (string, error) {
	prompt := rec.SystemPrompt
	for _, f := range rec.PromptFields {
		value, ok := values[f.Name]
		if !ok || value == "" {
			value = f.DefaultValue
		}
		if value == "" {
			if f.Required {
				return "", fmt.Errorf("prompt field %q of agent %q is required and has no value or default", f.Name, rec.Name)
			}
			continue
		}
		prompt = strings.ReplaceAll(prompt, "{"+f.Name+"}", value)
	}
	return prompt, nil
}

// BuildAgent materializes an agent from its record: the rendered prompt
// becomes the static instruction and selected tool names resolve against the
// catalogue. Unknown tool names are skipped with a warning rather than
// failing the build.
func BuildAgent(rec AgentRecord, catalog *tool.Catalog, optFns ...func(o *BuildOptions)) (*agent.Agent, error) {
	opts := applyBuildOptions(optFns)

	prompt, err := RenderPrompt(rec, opts.PromptValues)
	if err != nil {
		return nil, err
	}

	var tools []tool.Tool
	for _, name := range rec.SelectedTools {
		t, ok := catalog.Get(name)
		if !ok {
			opts.Logger.Warn("definition.tool.unknown", "agent", rec.Name, "tool", name)
			continue
		}
		tools = append(tools, t)
	}

	return agent.New(rec.Name, func(o *agent.Options) {
		o.Description = rec.Description
		o.Instruction = agent.NewInstructionFromText(prompt)
		o.Tools = tools
		if opts.Hooks != nil {
			o.Hooks = []agent.Hooks{opts.Hooks}
		}
	})
}

// BuildOrchestrator materializes an orchestrator: each member record builds
// into an agent that is then wrapped as an agent-tool callable by the
// orchestrator, carrying the member's description so the model can route.
// Unresolvable member IDs are skipped with a warning. Function tools are not
// attached to orchestrators; members are their only capabilities.
func BuildOrchestrator(
	rec OrchestratorRecord,
	lookup AgentLookup,
	catalog *tool.Catalog,
	r *runner.Runner,
	optFns ...func(o *BuildOptions),
) (*agent.Agent, error) {
	opts := applyBuildOptions(optFns)

	var memberTools []tool.Tool
	for _, id := range rec.AgentIDs {
		memberRec, ok := lookup(id)
		if !ok {
			opts.Logger.Warn("definition.member.unknown", "orchestrator", rec.Name, "agent_id", id)
			continue
		}
		member, err := BuildAgent(memberRec, catalog, optFns...)
		if err != nil {
			return nil, fmt.Errorf("building member agent %q: %w", memberRec.Name, err)
		}
		memberTools = append(memberTools, runner.NewAgentTool(r, member, func(o *runner.AgentToolOptions) {
			o.Description = memberRec.Description
		}))
	}

	return agent.New(rec.Name, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(rec.SystemPrompt)
		o.Tools = memberTools
		if opts.Hooks != nil {
			o.Hooks = []agent.Hooks{opts.Hooks}
		}
	})
}

func applyBuildOptions(optFns []func(o *BuildOptions)) BuildOptions {
	opts := BuildOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return opts
}
