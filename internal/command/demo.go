package command

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/theflywheel/chash"
)

// DemoCommand returns the demo subcommand group.
func DemoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Walk through the map API",
		Subcommands: []*cli.Command{
			{
				Name:   "entry",
				Usage:  "Insert and update values through the entry API",
				Action: demoEntry,
			},
			{
				Name:   "collect",
				Usage:  "Build a map from key-value pairs and look them up",
				Action: demoCollect,
			},
		},
	}
}

func demoEntry(c *cli.Context) error {
	w := c.App.Writer
	logger := Logger(c)
	const key = "counter"

	counts := chash.New[string, uint32](chash.Strings(nil), chash.WithLogger(logger))
	counts.Entry(key).OrInsert(3)
	if err := expect(w, "OrInsert(3)", counts.At(key), 3); err != nil {
		return err
	}
	*counts.Entry(key).OrInsert(10) *= 2
	if err := expect(w, "OrInsert(10) *= 2", counts.At(key), 6); err != nil {
		return err
	}

	greetings := chash.New[string, string](chash.Strings(nil), chash.WithLogger(logger))
	value := "hoho"
	greetings.Entry(key).OrInsertWith(func() string { return value })
	if err := expect(w, "OrInsertWith", greetings.At(key), "hoho"); err != nil {
		return err
	}

	lengths := chash.New[string, int](chash.Strings(nil), chash.WithLogger(logger))
	lengths.Entry(key).OrInsertWithKey(utf8.RuneCountInString)
	if err := expect(w, "OrInsertWithKey", lengths.At(key), 7); err != nil {
		return err
	}

	hits := chash.New[string, uint32](chash.Strings(nil), chash.WithLogger(logger))
	hits.Entry(key).AndModify(func(v *uint32) { *v++ }).OrInsert(42)
	if err := expect(w, "AndModify on vacant", hits.At(key), 42); err != nil {
		return err
	}
	hits.Entry(key).AndModify(func(v *uint32) { *v++ }).OrInsert(42)
	if err := expect(w, "AndModify on occupied", hits.At(key), 43); err != nil {
		return err
	}
	if err := expect(w, "Entry.Key", hits.Entry(key).Key(), key); err != nil {
		return err
	}

	optional := chash.New[string, *uint32](chash.Strings(nil), chash.WithLogger(logger))
	optional.Entry(key).OrDefault()
	if err := expect(w, "OrDefault", optional.At(key), (*uint32)(nil)); err != nil {
		return err
	}
	return nil
}

func demoCollect(c *cli.Context) error {
	w := c.App.Writer
	pairs := []chash.Pair[string, int]{{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 3}}
	m := chash.FromPairs(chash.Strings(nil), pairs, chash.WithLogger(Logger(c)))

	for _, p := range pairs {
		got, ok := m.Get(p.Key)
		if !ok {
			return cli.Exit(fmt.Sprintf("%s: not found", p.Key), 1)
		}
		if err := expect(w, "Get("+p.Key+")", got, p.Value); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "len = %d\n", m.Len())
	return nil
}

// expect prints a demo step and fails the command when got differs from want.
func expect[T comparable](w io.Writer, step string, got, want T) error {
	if got != want {
		return cli.Exit(fmt.Sprintf("%s: got %v, want %v", step, got, want), 1)
	}
	fmt.Fprintf(w, "%-22s => %v\n", step, got)
	return nil
}
