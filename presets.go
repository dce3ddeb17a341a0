package crewflow

import (
	"fmt"
	"sort"
)

var presets = map[string]Snapshot{
	"simple-task": {
		Nodes: []Node{
			{ID: "crew-1", Kind: KindOrchestrator, Attributes: OrchestratorAttrs{
				Name: "Simple Crew", Description: "A crew for a simple task",
			}},
			{ID: "agent-1", Kind: KindWorker, Attributes: WorkerAttrs{
				Name: "Task Executor", Role: "Executor", Goal: "Execute the task",
				Backstory: "Efficient agent for simple tasks", Tools: ToolList{"basic_tools"},
			}},
			{ID: "task-1", Kind: KindWorkItem, Attributes: WorkItemAttrs{
				Name: "Simple Task", Description: "A straightforward task to be executed",
				ExpectedOutput: "Completed task",
			}},
		},
		Edges: []Edge{
			{ID: "e1-2", Source: "crew-1", Target: "agent-1"},
			{ID: "e2-3", Source: "agent-1", Target: "task-1"},
		},
	},
	"research-team": {
		Nodes: []Node{
			{ID: "crew-1", Kind: KindOrchestrator, Attributes: OrchestratorAttrs{
				Name: "Research Team", Description: "A crew for conducting research",
			}},
			{ID: "agent-1", Kind: KindWorker, Attributes: WorkerAttrs{
				Name: "Lead Researcher", Role: "Research Lead", Goal: "Guide the research process",
				Backstory: "Experienced researcher with multiple publications",
				Tools:     ToolList{"academic_database", "data_analysis"},
			}},
			{ID: "agent-2", Kind: KindWorker, Attributes: WorkerAttrs{
				Name: "Data Analyst", Role: "Analyst", Goal: "Analyze research data",
				Backstory: "Skilled in statistical analysis and data visualization",
				Tools:     ToolList{"statistical_software", "visualization_tools"},
			}},
			{ID: "task-1", Kind: KindWorkItem, Attributes: WorkItemAttrs{
				Name: "Literature Review", Description: "Conduct a comprehensive literature review",
				ExpectedOutput: "Summary of relevant research",
			}},
			{ID: "task-2", Kind: KindWorkItem, Attributes: WorkItemAttrs{
				Name: "Data Analysis", Description: "Analyze collected data and draw conclusions",
				ExpectedOutput: "Statistical report and visualizations",
			}},
		},
		Edges: []Edge{
			{ID: "e1-2", Source: "crew-1", Target: "agent-1"},
			{ID: "e1-3", Source: "crew-1", Target: "agent-2"},
			{ID: "e2-4", Source: "agent-1", Target: "task-1"},
			{ID: "e3-5", Source: "agent-2", Target: "task-2"},
		},
	},
}

// PresetNames lists the canned flows in name order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of the named canned flow.
func Preset(name string) (*Snapshot, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p.Clone(), nil
}
