package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/client"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
)

type command struct {
	api     client.API
	logger  *slog.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	program string
}

var (
	headerColor  = color.New(color.Bold)
	successColor = color.New(color.FgGreen)
	usedColor    = color.New(color.FgYellow)
	mutedColor   = color.New(color.FgHiBlack)
)

func (c *command) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(c.program, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func (c *command) loadCatalog(ctx context.Context) (*client.Catalog, error) {
	catalog := client.NewCatalog(c.api, c.logger)
	if err := catalog.Load(ctx); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (c *command) list(ctx context.Context, args []string) error {
	fs := c.flagSet()
	search := fs.String("q", "", "Case-insensitive text searched in name and description")
	section := fs.String("section", "", "Only products of this section")
	used := fs.String("used", "", "Condition filter: used or new")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := client.Filter{
		SearchTerm: *search,
		Section:    model.Section(*section),
		Used:       client.UsedFilter(*used),
	}
	switch filter.Used {
	case client.UsedAll, client.UsedOnly, client.NewOnly:
	default:
		return fmt.Errorf("invalid -used value %q, expected used or new", *used)
	}

	catalog, err := c.loadCatalog(ctx)
	if err != nil {
		return err
	}
	catalog.SetFilter(filter)

	products := catalog.Filtered()
	if len(products) == 0 {
		mutedColor.Fprintln(c.stdout, "no products found")
	} else {
		c.printProducts(catalog, products)
	}

	stats := catalog.Stats()
	mutedColor.Fprintf(c.stdout, "\n%d of %d products\n", stats.Filtered, stats.Total)
	return nil
}

func (c *command) printProducts(catalog *client.Catalog, products []model.Product) {
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(tw, "ID\tNAME\tSECTION\tPRICE\tCONDITION\tBRAND")
	for _, p := range products {
		condition := "new"
		if p.Used {
			condition = usedColor.Sprint("used")
		}
		brand := p.Brand
		if _, ok := catalog.BrandFor(p); !ok {
			brand += mutedColor.Sprint(" (unknown)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\t%s\n", p.ID, p.Name, p.Section, p.Price, condition, brand)
	}
	//nolint:errcheck
	tw.Flush()
}

func (c *command) printProduct(p model.Product) {
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%s\n", p.ID)
	fmt.Fprintf(tw, "name\t%s\n", p.Name)
	fmt.Fprintf(tw, "section\t%s\n", p.Section)
	fmt.Fprintf(tw, "price\t%.2f\n", p.Price)
	fmt.Fprintf(tw, "description\t%s\n", p.Description)
	fmt.Fprintf(tw, "image\t%s\n", p.Image)
	fmt.Fprintf(tw, "used\t%t\n", p.Used)
	fmt.Fprintf(tw, "brand\t%s\n", p.Brand)
	//nolint:errcheck
	tw.Flush()
}

func (c *command) get(ctx context.Context, args []string) error {
	fs := c.flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := singleID(fs)
	if err != nil {
		return err
	}

	product, err := c.api.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	c.printProduct(product)
	return nil
}

// productFlags binds the product fields to fs, starting from current.
func productFlags(fs *flag.FlagSet, current client.ProductInput) *client.ProductInput {
	in := current
	fs.StringVar(&in.Name, "name", in.Name, "Product name")
	fs.Func("section", "Section, for example "+strings.Join(sectionNames(), ", "), func(s string) error {
		in.Section = model.Section(s)
		return nil
	})
	fs.Float64Var(&in.Price, "price", in.Price, "Price, greater than zero")
	fs.StringVar(&in.Description, "description", in.Description, "Product description")
	fs.StringVar(&in.Image, "image", in.Image, "Image URL")
	fs.BoolVar(&in.Used, "used", in.Used, "Mark the product as used")
	fs.StringVar(&in.Brand, "brand", in.Brand, "Brand name")
	return &in
}

func (c *command) create(ctx context.Context, args []string) error {
	fs := c.flagSet()
	in := productFlags(fs, client.ProductInput{})
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog, err := c.loadCatalog(ctx)
	if err != nil {
		return err
	}

	product, err := catalog.Create(ctx, *in)
	if err != nil {
		return err
	}

	successColor.Fprintf(c.stdout, "product %s created\n", product.ID)
	c.printProduct(product)
	return nil
}

func (c *command) update(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errors.New("usage: update <id> [flags]")
	}
	id, rest := args[0], args[1:]

	catalog, err := c.loadCatalog(ctx)
	if err != nil {
		return err
	}

	current, err := c.api.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	fs := c.flagSet()
	in := productFlags(fs, client.ProductInput{
		Name:        current.Name,
		Section:     current.Section,
		Price:       current.Price,
		Description: current.Description,
		Image:       current.Image,
		Used:        current.Used,
		Brand:       current.Brand,
	})
	if err := fs.Parse(rest); err != nil {
		return err
	}

	product, err := catalog.Update(ctx, id, *in)
	if err != nil {
		return err
	}

	successColor.Fprintf(c.stdout, "product %s updated\n", product.ID)
	c.printProduct(product)
	return nil
}

func (c *command) delete(ctx context.Context, args []string) error {
	fs := c.flagSet()
	yes := fs.Bool("y", false, "Do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := singleID(fs)
	if err != nil {
		return err
	}

	catalog, err := c.loadCatalog(ctx)
	if err != nil {
		return err
	}

	var confirmer client.Confirmer = client.ConfirmFunc(func(context.Context, model.Product) (bool, error) {
		return true, nil
	})
	if !*yes {
		confirmer = &promptConfirmer{in: bufio.NewReader(c.stdin), out: c.stdout}
	}

	deleted, err := catalog.Delete(ctx, id, confirmer)
	if err != nil {
		return err
	}
	if !deleted {
		mutedColor.Fprintln(c.stdout, "delete cancelled")
		return nil
	}

	successColor.Fprintf(c.stdout, "product %s deleted\n", id)
	return nil
}

func (c *command) brands(ctx context.Context, args []string) error {
	fs := c.flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}

	brands, err := c.api.ListBrands(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(tw, "ID\tNAME\tIMAGE")
	for _, b := range brands {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.ID, b.Name, b.Image)
	}
	//nolint:errcheck
	tw.Flush()
	return nil
}

func (c *command) sections(ctx context.Context, args []string) error {
	fs := c.flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalog, err := c.loadCatalog(ctx)
	if err != nil {
		return err
	}

	for _, s := range catalog.Sections() {
		fmt.Fprintln(c.stdout, s)
	}
	return nil
}

type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *promptConfirmer) ConfirmDelete(_ context.Context, product model.Product) (bool, error) {
	label := product.ID
	if product.Name != "" {
		label = fmt.Sprintf("%s (%s)", product.ID, product.Name)
	}
	fmt.Fprintf(p.out, "Delete product %s? [y/N] ", label)

	answer, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func singleID(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", errors.New("exactly one product id is required")
	}
	return fs.Arg(0), nil
}

func sectionNames() []string {
	names := make([]string, len(model.Sections))
	for i, s := range model.Sections {
		names[i] = s.String()
	}
	return names
}
