package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	"github.com/matzehuels/moodboard/pkg/metadata"
)

type metadataOpts struct {
	jsonOut bool
	noCache bool
	canvas  string
}

// metadataCommand creates the "metadata" command for link previews.
func (c *CLI) metadataCommand() *cobra.Command {
	var opts metadataOpts

	cmd := &cobra.Command{
		Use:   "metadata [url]...",
		Short: "Fetch link previews",
		Long: `Fetch the OpenGraph preview of each URL. With --canvas, the previews of
every link node in the canvas file are refreshed and saved back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.canvas == "" {
				return errors.New(errors.ErrCodeInvalidInput, "give at least one URL or --canvas")
			}
			svc, closeStore, err := c.newMetadata(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer closeStore()

			if opts.canvas != "" {
				return c.refreshCanvas(cmd.Context(), svc, opts.canvas)
			}
			return fetchPreviews(cmd, svc, args, opts.jsonOut)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print previews as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the persistent preview cache")
	cmd.Flags().StringVar(&opts.canvas, "canvas", "", "refresh the link nodes of this canvas file")

	return cmd
}

func fetchPreviews(cmd *cobra.Command, svc *metadata.Service, urls []string, jsonOut bool) error {
	for _, u := range urls {
		if err := errors.ValidateURL(u); err != nil {
			return err
		}
	}

	previews := make([]*metadata.OpenGraph, 0, len(urls))
	spin := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Fetching %d preview(s)...", len(urls)))
	spin.Start()
	for _, u := range urls {
		previews = append(previews, svc.Fetch(cmd.Context(), u))
	}
	spin.Stop()
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(previews)
	}
	for i, og := range previews {
		if i > 0 {
			printNewline()
		}
		fmt.Println(StyleLink.Render(urls[i]))
		printKeyValue("Title", og.Title)
		for _, kv := range [][2]string{
			{"Description", og.Description},
			{"Site", og.SiteName},
			{"Type", og.Type},
			{"Image", og.Image},
		} {
			if kv[1] != "" {
				printKeyValue(kv[0], kv[1])
			}
		}
	}
	return nil
}

// refreshCanvas refetches the preview of every link node in path.
func (c *CLI) refreshCanvas(ctx context.Context, svc *metadata.Service, path string) error {
	s, err := c.newSession(svc)
	if err != nil {
		return err
	}
	if _, err := s.OpenFile(ctx, path); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	updated := 0
	for _, n := range s.Document().Nodes {
		if n.Type != canvas.TypeLink {
			continue
		}
		ok, err := s.RefreshLink(ctx, n.ID)
		if err != nil {
			printWarning("%s: %s", n.ID, errors.UserMessage(err))
			continue
		}
		if ok {
			updated++
			printDetail("%s %s %s", n.ID, iconArrow, n.Data["url"])
		}
	}
	if err := s.SaveFile(ctx, path, nil); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Refreshed %d link preview(s)", updated))
	printFile(path)
	return nil
}
