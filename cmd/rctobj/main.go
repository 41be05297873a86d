package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/rctobj"
	"github.com/bodgit/rctobj/imagetable"
	"github.com/bodgit/rctobj/sprite"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultDB = "rctobj.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// enableTracing turns on glog's verbose decode traces using set, which is
// normally flag.Set.
func enableTracing(logger *log.Logger, set func(name, value string) error) {
	for _, f := range [][2]string{{"logtostderr", "true"}, {"v", "2"}} {
		if err := set(f[0], f[1]); err != nil {
			logger.Printf("Unable to set glog flag \"%s\": %v\n", f[0], err)
		}
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
		enableTracing(logger, flag.Set)
	}
	return logger
}

type logContext struct {
	logger *log.Logger
}

func (c logContext) LogWarning(code imagetable.ErrorCode, text string) {
	c.logger.Printf("warning: %s (%s)\n", text, code)
}

func (c logContext) LogError(code imagetable.ErrorCode, text string) {
	c.logger.Printf("error: %s (%s)\n", text, code)
}

// loadTable returns the image table in file, which is either an object or,
// if raw is set, a bare image table.
func loadTable(file string, raw bool, logger *log.Logger) (*imagetable.Table, error) {
	if !raw {
		d, err := rctobj.Load(file, logger)
		if err != nil {
			return nil, err
		}
		return d.Images, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return imagetable.ReadTable(logContext{logger}, bufio.NewReader(f))
}

func loadPalette(file string) (color.Palette, error) {
	if file == "" {
		return nil, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return sprite.LoadPalette(f)
}

func loadImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	return m, nil
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, m)
}

func main() {
	// glog registers its flags on the standard flag set, mark it parsed so
	// glog doesn't complain; urfave/cli handles the command line
	if err := flag.CommandLine.Parse(nil); err != nil {
		log.Fatal(err)
	}

	app := cli.NewApp()

	app.Name = "rctobj"
	app.Usage = "Park object image table utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	rawFlag := &cli.BoolFlag{
		Name:  "raw",
		Usage: "FILE is a bare image table rather than an object",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"RCTOBJ_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "scan",
			Usage:       "Scan filesystem and index objects",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				r, err := rctobj.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer r.Close()

				if err := r.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "list",
			Usage:       "List indexed objects",
			Description: "",
			Action: func(c *cli.Context) error {
				r, err := rctobj.New(c.String("db"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer r.Close()

				objects, err := r.Objects()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				p := message.NewPrinter(language.English)
				for _, o := range objects {
					p.Printf("%-8s %-16s %08X %6d %10d %s\n", o.Name, o.Type, o.Checksum, o.Images, o.DataSize, o.Path)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Describe the image table of an object",
			Description: "",
			ArgsUsage:   "FILE",
			Flags:       []cli.Flag{rawFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				t, err := loadTable(c.Args().First(), c.Bool("raw"), newLogger(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer t.Close()

				p := message.NewPrinter(language.English)
				p.Printf("%d images, %d bytes of pixel data\n", t.Count(), t.DataSize())
				for i, el := range t.Images() {
					p.Printf("%5d: %4dx%-4d offset %d,%d zoomed %d %s (%d bytes)\n", i, el.Width, el.Height, el.XOffset, el.YOffset, el.ZoomedOffset, el.Flags, len(t.Pixels(i)))
				}

				return nil
			},
		},
		{
			Name:        "export",
			Usage:       "Export every image as a PNG",
			Description: "",
			ArgsUsage:   "FILE DIRECTORY",
			Flags: []cli.Flag{
				rawFlag,
				&cli.StringFlag{
					Name:  "palette",
					Usage: "RIFF palette to use instead of grayscale",
				},
				&cli.UintFlag{
					Name:  "scale",
					Value: 1,
					Usage: "enlarge each image by this factor",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				pal, err := loadPalette(c.String("palette"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				file := c.Args().First()
				t, err := loadTable(file, c.Bool("raw"), logger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer t.Close()

				dir := c.Args().Get(1)
				if err := os.MkdirAll(dir, 0755); err != nil {
					return cli.NewExitError(err, 1)
				}

				base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
				for i, el := range t.Images() {
					m, err := sprite.Decode(el, t.Pixels(i), pal)
					if err != nil {
						logger.Printf("Skipping image %d: %v\n", i, err)
						continue
					}
					if err := writePNG(filepath.Join(dir, fmt.Sprintf("%s_%05d.png", base, i)), sprite.Scale(m, c.Uint("scale"))); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:        "build",
			Usage:       "Build a bare image table from images",
			Description: "",
			ArgsUsage:   "OUTPUT FILE...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "palette",
					Usage: "RIFF palette to map colors to instead of a generated one",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				pal, err := loadPalette(c.String("palette"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				var images []image.Image
				for _, file := range c.Args().Tail() {
					m, err := loadImage(file)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					images = append(images, m)
				}

				if pal == nil {
					pal = sprite.Quantize(images...)
				}

				b := new(imagetable.Builder)
				for _, m := range images {
					el, pixels, err := sprite.Encode(m, pal)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					if _, err := b.Add(el, pixels); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				f, err := os.Create(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				if _, err := b.Table().WriteTo(f); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
