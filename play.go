package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/kategorie/internal/client"
	"github.com/robalobadob/kategorie/internal/flow"
	"github.com/robalobadob/kategorie/internal/game"
)

const backCommand = ":back"

type playOptions struct {
	server string
	gameID string
	invite string
}

func newPlayCmd() *cobra.Command {
	var o playOptions
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal against a running server.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(o.server)
			return runPlay(cmd.Context(), os.Stdin, cmd.OutOrStdout(), c, o)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&o.server, "server", "http://localhost:5175", "Kategorie server URL (env: KATEGORIE_SERVER)")
	fs.StringVar(&o.gameID, "game", "", "join this game instead of creating one (env: KATEGORIE_GAME)")
	fs.StringVar(&o.invite, "invite", "", "join the game behind this invite token (env: KATEGORIE_INVITE)")
	return cmd
}

// runPlay drives one flow.State from lines read on in until the game is
// shared (create) or scored (join).
func runPlay(ctx context.Context, in io.Reader, out io.Writer, c *client.Client, o playOptions) error {
	mode, cfg, rec, err := startPlay(ctx, out, c, o)
	if err != nil {
		return err
	}
	if rec != nil && rec.Completed() {
		fmt.Fprintln(out, "This game is already finished.")
		printResults(out, rec)
		return nil
	}

	scanner := bufio.NewScanner(in)
	readLine := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	st := flow.New(mode, *cfg)
	started := time.Now()
	for !st.Done() {
		if st.Error != "" {
			fmt.Fprintf(out, "! %s\n", st.Error)
		}
		switch st.Step {
		case flow.StepName:
			fmt.Fprintf(out, "%s: ", st.Prompt())
			line, err := readLine()
			if err != nil {
				return err
			}
			st = st.SetName(line)

		case flow.StepAnswer:
			fmt.Fprintf(out, "[%d/%d] %s", st.Category+1, game.CategoryCount, st.Prompt())
			if cur := st.Current(); cur != "" {
				fmt.Fprintf(out, " (%s)", cur)
			}
			fmt.Fprint(out, ": ")
			line, err := readLine()
			if err != nil {
				return err
			}
			if line == backCommand {
				st = st.Back()
				continue
			}
			st = st.Answer(line)

		case flow.StepReview:
			printReview(out, st)
			fmt.Fprintf(out, "Submit? [y, 1-%d to edit, %s]: ", game.CategoryCount, backCommand)
			line, err := readLine()
			if err != nil {
				return err
			}
			switch {
			case strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"):
				next, p, ok := st.Submit()
				st = next
				if !ok {
					continue
				}
				p.TimeSpent = int(time.Since(started).Seconds())
				st, err = submit(ctx, out, c, st, rec, p)
				if err != nil {
					return err
				}
			case line == backCommand:
				st = st.Back()
			default:
				n, convErr := strconv.Atoi(line)
				if convErr != nil {
					st = st.Edit(-1)
					continue
				}
				st = st.Edit(n - 1)
			}

		default:
			return fmt.Errorf("unexpected step %q", st.Step)
		}
	}
	return nil
}

// startPlay decides the mode and fetches the rules to play under. rec is
// non-nil when joining.
func startPlay(ctx context.Context, out io.Writer, c *client.Client, o playOptions) (flow.Mode, *game.Config, *game.Record, error) {
	id := o.gameID
	if o.invite != "" {
		pv, err := c.Invite(ctx, o.invite)
		if err != nil {
			return "", nil, nil, fmt.Errorf("resolve invite: %w", err)
		}
		fmt.Fprintf(out, "%s challenged you! Every answer must start with %q.\n",
			pv.Host, strings.ToUpper(pv.RequiredLetter))
		id = pv.GameID
	}
	if id == "" {
		cfg, err := c.Config(ctx)
		if err != nil {
			return "", nil, nil, fmt.Errorf("fetch config: %w", err)
		}
		return flow.ModeCreate, cfg, nil, nil
	}
	rec, err := c.GetGame(ctx, id)
	if err != nil {
		return "", nil, nil, fmt.Errorf("fetch game %s: %w", id, err)
	}
	return flow.ModeJoin, &rec.GameConfig, rec, nil
}

// submit sends p to the server. Rejections from the server go back into
// the state; transport failures end the session.
func submit(ctx context.Context, out io.Writer, c *client.Client, st flow.State, rec *game.Record, p game.PlayerData) (flow.State, error) {
	var apiErr *client.APIError
	if st.Mode == flow.ModeCreate {
		created, err := c.CreateGame(ctx, "", p)
		if errors.As(err, &apiErr) {
			return st.Fail(apiErr.Message), nil
		}
		if err != nil {
			return st, err
		}
		fmt.Fprintf(out, "\nGame %s created.\n", created.GameID)
		fmt.Fprintf(out, "Share this link with a friend:\n  %s\n", created.ShareURL)
		if created.Invite != "" {
			fmt.Fprintf(out, "Or they can run:\n  kategorie play --invite %s\n", created.Invite)
		}
		return st.Stored(), nil
	}

	done, err := c.JoinGame(ctx, rec.ID, p)
	if errors.As(err, &apiErr) {
		return st.Fail(apiErr.Message), nil
	}
	if err != nil {
		return st, err
	}
	printResults(out, done)
	return st.Stored(), nil
}

func printReview(out io.Writer, st flow.State) {
	fmt.Fprintf(out, "\n%s, %s:\n", st.PlayerName, strings.ToLower(st.Prompt()))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, v := range st.Answers.Values() {
		fmt.Fprintf(tw, "  %d.\t%s\t%s\n", i+1, game.Categories[i].Noun, v)
	}
	_ = tw.Flush()
}

func printResults(out io.Writer, rec *game.Record) {
	p2 := "Player 2"
	if rec.Player2 != nil {
		p2 = rec.Player2.Name
	}
	if rec.Results == nil {
		fmt.Fprintf(out, "\n%s and %s both played. Scoring is off for this game.\n", rec.Player1.Name, p2)
		return
	}
	res := rec.Results
	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Category\t%s\t%s\t\n", rec.Player1.Name, p2)
	for _, b := range res.Breakdown {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", b.Category, b.Player1Points, b.Player2Points, b.Reason)
	}
	fmt.Fprintf(tw, "Total\t%d\t%d\t\n", res.Player1Score, res.Player2Score)
	_ = tw.Flush()

	switch {
	case res.Player1Score > res.Player2Score:
		fmt.Fprintf(out, "%s wins!\n", rec.Player1.Name)
	case res.Player2Score > res.Player1Score:
		fmt.Fprintf(out, "%s wins!\n", p2)
	default:
		fmt.Fprintln(out, "It's a tie!")
	}
}
