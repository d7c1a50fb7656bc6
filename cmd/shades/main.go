package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/shades"
	"github.com/bodgit/shades/image"
	"github.com/bodgit/shades/scan"
	"github.com/bodgit/shades/store"
	"github.com/urfave/cli/v2"
)

const defaultOutput = "blue_grid.png"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newDecoder(c *cli.Context) *shades.Decoder {
	return &shades.Decoder{
		Strict: c.Bool("strict"),
		Logger: newLogger(c),
	}
}

func openDB(c *cli.Context) (*store.DB, error) {
	if c.String("db") == "" {
		return nil, errors.New("no archive, use --db or set SHADES_DB")
	}
	return store.New(c.String("db"))
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(name)
}

func writeOutput(name string, b []byte) error {
	if name == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	return ioutil.WriteFile(name, b, 0644)
}

func outputFormat(c *cli.Context) (image.Format, error) {
	if c.IsSet("format") {
		return image.ParseFormat(c.String("format"))
	}
	if c.String("output") == "-" {
		return image.PNG, nil
	}
	return image.FormatFromExtension(c.String("output"))
}

func encode(c *cli.Context) error {
	var message string
	if c.NArg() > 0 {
		message = c.Args().First()
	} else {
		b, err := readInput("-")
		if err != nil {
			return err
		}
		message = string(b)
	}

	f, err := outputFormat(c)
	if err != nil {
		return err
	}

	o := &image.Options{
		Width:  c.Int("width"),
		Format: f,
	}

	b := new(bytes.Buffer)
	if err := image.EncodeMessage(b, message, c.String("key"), o); err != nil {
		return err
	}

	if err := writeOutput(c.String("output"), b.Bytes()); err != nil {
		return err
	}

	if c.String("db") == "" {
		return nil
	}

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	sha, err := db.Add(b.Bytes(), f.String(), o.Width)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.ErrWriter, sha)

	return nil
}

func decode(c *cli.Context) error {
	var r io.Reader
	switch {
	case c.IsSet("id"):
		db, err := openDB(c)
		if err != nil {
			return err
		}
		defer db.Close()

		e, err := db.Get(c.String("id"))
		if err != nil {
			return err
		}
		r = bytes.NewReader(e.Data)
	case c.NArg() > 0:
		b, err := readInput(c.Args().First())
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	default:
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	message, err := image.DecodeMessage(r, c.String("key"), newDecoder(c))
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, message)

	return nil
}

func scanDirectory(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	dir := c.Args().First()
	results, err := scan.New(newDecoder(c), newLogger(c)).Scan(dir, c.String("key"))
	if err != nil {
		return err
	}

	base, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	for _, r := range results {
		name, err := filepath.Rel(base, r.File)
		if err != nil {
			name = r.File
		}
		if r.Err != nil {
			fmt.Fprintf(c.App.Writer, "%s: error: %v\n", name, r.Err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s: %s\n", name, r.Message)
	}

	return nil
}

func list(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.List()
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(c.App.Writer, "%s %-4s %5d %s\n", e.SHA1, e.Format, e.Width, e.Created.Format("2006-01-02 15:04:05"))
	}

	return nil
}

func remove(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Remove(c.Args().First())
}

func keyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "key",
		Aliases:  []string{"k"},
		EnvVars:  []string{"SHADES_KEY"},
		Usage:    "passphrase",
		Required: true,
	}
}

func strictFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "strict",
		Usage: "fail on any cell outside the valid range instead of skipping it",
	}
}

func exitOnError(action cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := action(c); err != nil {
			return cli.NewExitError(err, 1)
		}
		return nil
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "shades"
	app.Usage = "Hide messages in 7744 shades of blue"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SHADES_DB"},
			Usage:   "path to image archive",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Hide a message in an image",
			Description: "The message is read from standard input if not given as an argument.",
			ArgsUsage:   "[MESSAGE]",
			Flags: []cli.Flag{
				keyFlag(),
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   defaultOutput,
					Usage:   "output file, - for standard output",
				},
				&cli.IntFlag{
					Name:  "width",
					Value: image.DefaultWidth,
					Usage: fmt.Sprintf("image width in pixels, at least %d", shades.GridSize),
				},
				&cli.StringFlag{
					Name:  "format",
					Usage: "output format: png, gif, bmp or tiff (default from output extension)",
				},
			},
			Action: exitOnError(encode),
		},
		{
			Name:        "decode",
			Usage:       "Recover a message from an image",
			Description: "FILE may be - to read the image from standard input.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				keyFlag(),
				strictFlag(),
				&cli.StringFlag{
					Name:  "id",
					Usage: "decode the archived image with this checksum prefix",
				},
			},
			Action: exitOnError(decode),
		},
		{
			Name:      "scan",
			Usage:     "Recover messages from every image in a directory",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				keyFlag(),
				strictFlag(),
			},
			Action: exitOnError(scanDirectory),
		},
		{
			Name:   "list",
			Usage:  "List archived images",
			Action: exitOnError(list),
		},
		{
			Name:      "remove",
			Usage:     "Remove an archived image",
			ArgsUsage: "SHA1",
			Action:    exitOnError(remove),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
