package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meikuraledutech/crewflow"
	"github.com/meikuraledutech/crewflow/postgres"
)

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	// Wire up the postgres implementation behind the Store interface.
	var store crewflow.Store = postgres.New(pool)

	// 1. Create tables
	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema created")

	editor := crewflow.NewEditor(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// ── Build a crew by hand ──────────────────────────────────────────
	crew, _, err := editor.Add(crewflow.KindOrchestrator, crewflow.OrchestratorAttrs{
		Name: "Blog Crew", Description: "Writes one post",
	})
	if err != nil {
		log.Fatalf("add crew: %v", err)
	}
	writer, _, err := editor.Add(crewflow.KindWorker, crewflow.WorkerAttrs{
		Name: "Writer", Role: "Writer", Goal: "Write a clear post",
		Backstory: "Ten years of technical blogging",
		Tools:     crewflow.ToolList{"web_search", "text_summarization"},
	})
	if err != nil {
		log.Fatalf("add agent: %v", err)
	}
	draft, _, err := editor.Add(crewflow.KindWorkItem, crewflow.WorkItemAttrs{
		Name: "Draft", Description: "Draft the post", ExpectedOutput: "Markdown post",
	})
	if err != nil {
		log.Fatalf("add task: %v", err)
	}

	for _, pair := range [][2]string{{crew.ID, writer.ID}, {writer.ID, draft.ID}} {
		if _, _, err := editor.Connect(pair[0], pair[1], ""); err != nil {
			log.Fatalf("connect: %v", err)
		}
	}

	// A task cannot feed an agent.
	if _, _, err := editor.Connect(draft.ID, writer.ID, ""); err != nil {
		fmt.Printf("rejected as expected: %v\n", err)
	}

	fmt.Println("\nscript:")
	fmt.Print(editor.Views().Script)

	// ── Save ──────────────────────────────────────────────────────────
	if err := store.SaveFlow(ctx, "blog-crew", editor.Views().Snapshot); err != nil {
		log.Fatalf("save flow: %v", err)
	}
	fmt.Println("\nflow saved")

	// ── Delete the agent: crew is rewired straight to the task ────────
	views, err := editor.RemoveBatch([]string{writer.ID})
	if err != nil {
		log.Fatalf("remove: %v", err)
	}
	fmt.Println("\nafter removing the agent:")
	fmt.Println(views.JSON)

	// ── Restore the saved copy ────────────────────────────────────────
	saved, err := store.GetFlow(ctx, "blog-crew")
	if err != nil {
		log.Fatalf("get flow: %v", err)
	}
	views, err = editor.Load(saved)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	fmt.Printf("\nrestored: %d nodes, %d edges\n", len(views.Snapshot.Nodes), len(views.Snapshot.Edges))

	flows, err := store.ListFlows(ctx)
	if err != nil {
		log.Fatalf("list flows: %v", err)
	}
	fmt.Printf("saved flows: %d\n", len(flows))

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := store.DeleteFlow(ctx, "blog-crew"); err != nil {
		log.Fatalf("delete: %v", err)
	}
	fmt.Println("\nflow deleted")
}
