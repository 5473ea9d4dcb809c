package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/moodboard/pkg/canvas"
	"github.com/matzehuels/moodboard/pkg/errors"
	"github.com/matzehuels/moodboard/pkg/integrations/docsys"
	"github.com/matzehuels/moodboard/pkg/interchange"
)

// docCommand creates the "doc" command for external document records.
func (c *CLI) docCommand() *cobra.Command {
	var flags docFlags

	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Place records from a document system on a canvas",
	}
	cmd.PersistentFlags().StringVar(&flags.dir, "dir", "", "directory of <id>.json documents")
	cmd.PersistentFlags().StringVar(&flags.mongoURI, "mongo-uri", "", "MongoDB connection string")
	cmd.PersistentFlags().StringVar(&flags.database, "mongo-db", "", "MongoDB database")
	cmd.PersistentFlags().StringVar(&flags.collection, "mongo-collection", "", "MongoDB collection")

	cmd.AddCommand(c.docListCommand(&flags))
	cmd.AddCommand(c.docAddCommand(&flags))

	return cmd
}

func (c *CLI) docListCommand(flags *docFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the documents of the source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.newSource(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer src.Close()

			docs, err := src.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				printInfo("No documents")
				return nil
			}
			for _, d := range docs {
				printKeyValue(d.ID, d.Title)
			}
			return nil
		},
	}
}

func (c *CLI) docAddCommand(flags *docFlags) *cobra.Command {
	var x, y float64

	cmd := &cobra.Command{
		Use:   "add <canvas> <id>...",
		Short: "Add document nodes to a canvas file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.newSource(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			defer src.Close()

			n, err := c.addDocuments(cmd.Context(), src, args[0], args[1:], canvas.Position{X: x, Y: y})
			if err != nil {
				return err
			}
			printSuccess("Added %d document node(s)", n)
			printFile(args[0])
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "x position of the first node")
	cmd.Flags().Float64Var(&y, "y", 0, "y position of the first node")

	return cmd
}

// docSpacing separates consecutive document nodes added in one call.
const docSpacing = 40

// addDocuments places the documents ids from src on the canvas at path,
// creating the file when it does not exist. A document already on the
// canvas is refreshed in place. Nothing is written unless every id resolves.
func (c *CLI) addDocuments(ctx context.Context, src docsys.Source, path string, ids []string, at canvas.Position) (int, error) {
	s, err := c.newSession(nil)
	if err != nil {
		return 0, err
	}
	if _, err := s.OpenFile(ctx, path); err != nil && !errors.Is(err, errors.ErrCodeFileNotFound) {
		return 0, err
	}

	var integ interchange.DocumentIntegration
	nodes := make([]canvas.Node, 0, len(ids))
	for i, id := range ids {
		doc, err := src.Get(ctx, id)
		if err != nil {
			return 0, err
		}
		pos := canvas.Position{X: at.X + float64(i)*docSpacing, Y: at.Y + float64(i)*docSpacing}
		node, err := integ.CreateDocumentNode(*doc, pos)
		if err != nil {
			return 0, err
		}
		nodes = append(nodes, node)
	}

	err = s.Apply(func(d *canvas.Document) error {
		for _, n := range nodes {
			if cur, exists := d.Node(n.ID); exists {
				n.Position, n.ParentID = cur.Position, cur.ParentID
				if err := d.UpdateNode(n); err != nil {
					return err
				}
				continue
			}
			if err := d.AddNode(n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(nodes), s.SaveFile(ctx, path, nil)
}
