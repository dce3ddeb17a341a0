package crewflow

import (
	"fmt"
	"strings"
)

// ScriptHeader opens every generated script.
const ScriptHeader = "from crewai import Agent, Task, Crew\n\n"

// Generate renders a snapshot as a crewai script. Only node kinds and
// attributes matter: every agent and every task joins the first crew found,
// whatever the edges say. The crew block is omitted when there is no crew node.
//
// String fields are copied into the quoted literals verbatim; embedded quotes
// are not escaped.
func Generate(snap *Snapshot) string {
	var (
		b      strings.Builder
		agents []string
		tasks  []string
		crew   bool
	)
	b.WriteString(ScriptHeader)

	for _, n := range snap.Nodes {
		switch a := n.Attributes.(type) {
		case WorkerAttrs:
			agents = append(agents, n.ID)
			fmt.Fprintf(&b, "%s = Agent(\n", n.ID)
			fmt.Fprintf(&b, "    role=\"%s\",\n", a.Role)
			fmt.Fprintf(&b, "    goal=\"%s\",\n", a.Goal)
			fmt.Fprintf(&b, "    backstory=\"%s\",\n", a.Backstory)
			fmt.Fprintf(&b, "    tools=[%s]\n", quoteList(a.Tools))
			b.WriteString(")\n\n")
		case OrchestratorAttrs:
			crew = true
		}
	}

	for _, n := range snap.Nodes {
		if a, ok := n.Attributes.(WorkItemAttrs); ok {
			tasks = append(tasks, n.ID)
			fmt.Fprintf(&b, "%s = Task(\n", n.ID)
			fmt.Fprintf(&b, "    description=\"%s\",\n", a.Description)
			fmt.Fprintf(&b, "    expected_output=\"%s\"\n", a.ExpectedOutput)
			b.WriteString(")\n\n")
		}
	}

	if crew {
		b.WriteString("crew = Crew(\n")
		fmt.Fprintf(&b, "    agents=[%s],\n", strings.Join(agents, ", "))
		fmt.Fprintf(&b, "    tasks=[%s]\n", strings.Join(tasks, ", "))
		b.WriteString(")\n\n")
		b.WriteString("result = crew.kickoff()\n")
	}
	return b.String()
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = `"` + s + `"`
	}
	return strings.Join(quoted, ", ")
}
