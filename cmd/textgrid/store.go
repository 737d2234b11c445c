package main

import (
	"fmt"
	"time"

	"github.com/FocuswithJustin/textgrid/core/praat"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
	"github.com/FocuswithJustin/textgrid/internal/logging"
	"github.com/FocuswithJustin/textgrid/internal/store"
)

// StoreGroup holds the corpus store subcommands.
type StoreGroup struct {
	DB string `name:"db" help:"Corpus database (default from config)" type:"path"`

	Save   StoreSaveCmd   `cmd:"" help:"Decode files and save them to the corpus"`
	List   StoreListCmd   `cmd:"" help:"List stored documents"`
	Show   StoreShowCmd   `cmd:"" help:"Print or export a stored document"`
	Search StoreSearchCmd `cmd:"" help:"Find intervals and points by label"`
	Delete StoreDeleteCmd `cmd:"" help:"Delete a stored document"`
}

// dbPath returns the corpus named by --db or the configuration.
func dbPath(s *session) string {
	if CLI.Store.DB != "" {
		return CLI.Store.DB
	}
	return s.cfg.Database
}

// withStore opens the corpus, read-only when writable is false, runs fn
// and closes it. Failures are logged with the session's run ID.
func withStore(command string, writable bool, fn func(*session, *store.Store) error) error {
	s, err := newSession(command)
	if err != nil {
		return err
	}
	open := store.OpenReadOnly
	if writable {
		open = store.Open
	}
	st, err := open(s.ctx, dbPath(s))
	if err != nil {
		return s.fail(err)
	}
	defer st.Close()
	return s.fail(fn(s, st))
}

// StoreSaveCmd saves documents.
type StoreSaveCmd struct {
	Files []string `arg:"" help:"TextGrid files" type:"path"`
}

func (c *StoreSaveCmd) Run() error {
	return withStore("store save", true, func(s *session, st *store.Store) error {
		for _, file := range c.Files {
			doc, err := s.load(file)
			if err != nil {
				return err
			}
			id, created, err := st.Save(s.ctx, doc)
			if err != nil {
				return err
			}
			logging.InfoContext(s.ctx, "document stored", "id", id, "name", doc.Name, "created", created)
			if created {
				fmt.Fprintf(stdout, "Saved: %s %s\n", id, doc.Name)
			} else {
				fmt.Fprintf(stdout, "Exists: %s %s\n", id, doc.Name)
			}
		}
		return nil
	})
}

// StoreListCmd lists documents.
type StoreListCmd struct{}

func (c *StoreListCmd) Run() error {
	return withStore("store list", false, func(s *session, st *store.Store) error {
		records, err := st.List(s.ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(stdout, "No documents stored")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(stdout, "%s  %-24s %2d tiers  %s - %s  %s  %s\n",
				r.ID, r.Name, r.Tiers,
				praat.FormatNumber(r.XMin), praat.FormatNumber(r.XMax),
				r.Fingerprint().Short(), r.CreatedAt.Format(time.DateTime))
		}
		return nil
	})
}

// StoreShowCmd prints a stored document, or writes it with --out.
type StoreShowCmd struct {
	ID   string `arg:"" help:"Document ID or unique prefix"`
	Out  string `short:"o" help:"Write to this file or directory instead of stdout"`
	Mode string `short:"m" help:"Output layout: verbose (long) or compact (short)"`
}

func (c *StoreShowCmd) Run() error {
	return withStore("store show", false, func(s *session, st *store.Store) error {
		mode, err := s.mode(c.Mode)
		if err != nil {
			return err
		}
		doc, err := st.Load(s.ctx, c.ID)
		if err != nil {
			return err
		}
		if c.Out != "" {
			return s.write(doc, c.Out, mode)
		}
		return praat.Encode(stdout, doc, mode)
	})
}

// StoreSearchCmd searches labels.
type StoreSearchCmd struct {
	Query string `arg:"" help:"Substring to look for in interval texts and point marks"`
}

func (c *StoreSearchCmd) Run() error {
	return withStore("store search", false, func(s *session, st *store.Store) error {
		matches, err := st.Search(s.ctx, c.Query)
		if err != nil {
			return err
		}
		for _, m := range matches {
			span := praat.FormatNumber(m.XMin)
			if m.Kind == textgrid.KindInterval {
				span += " - " + praat.FormatNumber(m.XMax)
			}
			fmt.Fprintf(stdout, "%s\t%s\t%s\t%q\n", m.Document, m.Tier, span, m.Label)
		}
		fmt.Fprintf(stdout, "%d matches\n", len(matches))
		return nil
	})
}

// StoreDeleteCmd deletes a document.
type StoreDeleteCmd struct {
	ID string `arg:"" help:"Document ID or unique prefix"`
}

func (c *StoreDeleteCmd) Run() error {
	return withStore("store delete", true, func(s *session, st *store.Store) error {
		if err := st.Delete(s.ctx, c.ID); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Deleted: %s\n", c.ID)
		return nil
	})
}
