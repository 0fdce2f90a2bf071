package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"gomoku/internal/storage"
)

func main() {
	dbPath := flag.String("db", "../data/games.db", "path to the replay SQLite database")
	flag.Parse()

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("failed to open replay store: %v", err)
	}
	defer store.Close()

	games, err := store.ListGames()
	if err != nil {
		log.Fatalf("failed to list games: %v", err)
	}

	for _, g := range games {
		fmt.Printf("Game ID: %s\n", g.ID)
		fmt.Printf("Time: %s - %s\n", g.StartedAt.Format(time.RFC822), g.EndedAt.Format(time.RFC822))
		fmt.Printf("Board: %dx%d\n", g.BoardSize, g.BoardSize)
		fmt.Printf("Players: X=%s vs O=%s\n", g.PlayerXKind, g.PlayerOKind)
		fmt.Printf("Winner: %s (%d moves)\n", g.Winner, g.MoveCount)

		fmt.Println("Moves:")
		formatted, err := json.MarshalIndent(g.Replay.Moves, "", "  ")
		if err != nil {
			fmt.Printf("  (failed to format moves: %v)\n", err)
		} else {
			fmt.Println(string(formatted))
		}
		fmt.Println("--------------------------------------------------")
	}

	fmt.Printf("Total games found: %d\n", len(games))
}
