package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"ctfarena/model"
	"ctfarena/service"
)

const consoleHelp = `Commands:
  list [category] [difficulty] [search...]  List challenges
  info <id>                                 Show challenge details
  submit <id> <flag>                        Submit a flag
  view <global|friends>                     Switch the live ranking
  board                                     Show the active ranking
  teams <term>                              Search teams in the active ranking
  refresh                                   Run a live update now
  progress                                  Show solved challenges and points
  export                                    Print the active ranking as CSV
`

// runConsole is a line-oriented front end: it reads commands until in is
// exhausted or ctx is done.
func runConsole(ctx context.Context, arena *service.Arena, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := runCommand(ctx, arena, out, fields[0], fields[1:]); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func runCommand(ctx context.Context, arena *service.Arena, out io.Writer, cmd string, args []string) error {
	switch cmd {
	case "list":
		return runList(arena, out, args)
	case "info":
		if len(args) < 1 {
			return fmt.Errorf("usage: info <id>")
		}
		return runInfo(arena, out, args[0])
	case "submit":
		if len(args) < 2 {
			return fmt.Errorf("usage: submit <id> <flag>")
		}
		return runSubmit(ctx, arena, out, args[0], strings.Join(args[1:], " "))
	case "view":
		if len(args) < 1 {
			return fmt.Errorf("usage: view <global|friends>")
		}
		if err := arena.SwitchView(args[0]); err != nil {
			return err
		}
		return printRanking(out, arena.ActiveRanking().Entries)
	case "board":
		return printRanking(out, arena.ActiveRanking().Entries)
	case "teams":
		return printRanking(out, arena.SearchTeams(strings.Join(args, " ")))
	case "refresh":
		if _, err := arena.Refresh(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Leaderboard refreshed")
		return printRanking(out, arena.ActiveRanking().Entries)
	case "progress":
		stats, err := arena.Progress()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Completed: %d/%d challenges, %d points\n", stats.Count, stats.Total, stats.TotalPoints)
		return nil
	case "export":
		return arena.ExportRanking(out, arena.ActiveRanking().Name)
	case "help":
		fmt.Fprint(out, consoleHelp)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func runList(arena *service.Arena, out io.Writer, args []string) error {
	category, difficulty, search := model.FilterAll, model.FilterAll, ""
	if len(args) > 0 {
		category = args[0]
	}
	if len(args) > 1 {
		difficulty = args[1]
	}
	if len(args) > 2 {
		search = strings.Join(args[2:], " ")
	}

	challenges := arena.QueryChallenges(category, difficulty, search)
	if len(challenges) == 0 {
		fmt.Fprintln(out, "No challenges found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTitle\tCategory\tDifficulty\tPoints\tSolved")
	for _, c := range challenges {
		solved := "No"
		if arena.IsCompleted(c.ID) {
			solved = "Yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", c.ID, c.Title, c.Category, c.Difficulty, c.Points, solved)
	}
	return w.Flush()
}

func runInfo(arena *service.Arena, out io.Writer, rawID string) error {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("challenge id must be a number: %w", model.ErrInvalidInput)
	}
	c, err := arena.GetChallenge(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "ID:          %d\n", c.ID)
	fmt.Fprintf(out, "Title:       %s\n", c.Title)
	fmt.Fprintf(out, "Category:    %s\n", c.Category)
	fmt.Fprintf(out, "Difficulty:  %s\n", c.Difficulty)
	fmt.Fprintf(out, "Points:      %d\n", c.Points)
	fmt.Fprintf(out, "Solved:      %v\n", arena.IsCompleted(c.ID))
	if len(c.Tags) > 0 {
		fmt.Fprintf(out, "Tags:        %s\n", strings.Join(c.Tags, ", "))
	}
	fmt.Fprintf(out, "Description:\n%s\n", c.Description)
	if len(c.Files) > 0 {
		fmt.Fprintln(out, "Files:")
		for _, f := range c.Files {
			fmt.Fprintf(out, "  - %s\n", f.Name)
		}
	}
	if len(c.Hints) > 0 {
		fmt.Fprintln(out, "Hints:")
		for i, h := range c.Hints {
			fmt.Fprintf(out, "  %d. %s\n", i+1, h)
		}
	}
	return nil
}

func runSubmit(ctx context.Context, arena *service.Arena, out io.Writer, rawID, flag string) error {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("challenge id must be a number: %w", model.ErrInvalidInput)
	}
	res, err := arena.SubmitFlag(ctx, id, flag)
	if errors.Is(err, model.ErrEmptyFlag) || errors.Is(err, model.ErrMalformedFlag) {
		fmt.Fprintln(out, res.Message)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res.Message)
	return nil
}

func printRanking(out io.Writer, entries []model.LeaderboardEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Rank\tTeam\tScore\tSolved\tLast Solve")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s %s\t%d\t%d\t%s\n", e.Rank, e.Avatar, e.Team, e.Score, e.Solved, e.LastSolve)
	}
	return w.Flush()
}
