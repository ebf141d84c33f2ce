package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/JordiMolto/MyMediaVerse/internal/importer"
)

// TemplateCommand writes a starter import file in the expected column layout.
type TemplateCommand struct {
	Format     string
	OutputPath string
}

// NewTemplateCommand creates a new TemplateCommand.
func NewTemplateCommand() *TemplateCommand {
	return &TemplateCommand{}
}

// ParseFlags parses command line flags.
func (cmd *TemplateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("template", flag.ExitOnError)

	fs.StringVar(&cmd.Format, "format", "csv", "Template format: csv or xlsx")
	fs.StringVar(&cmd.OutputPath, "output", "", "Output path (default: import-template.<format>)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s template [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Write a starter import file with the expected columns and example rows.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Format = strings.ToLower(cmd.Format)
	if cmd.Format != "csv" && cmd.Format != "xlsx" {
		return fmt.Errorf("unknown format: %s (want csv or xlsx)", cmd.Format)
	}
	if cmd.OutputPath == "" {
		cmd.OutputPath = "import-template." + cmd.Format
	}
	return nil
}

// Run writes the template file.
func (cmd *TemplateCommand) Run() error {
	out, err := os.Create(cmd.OutputPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if cmd.Format == "xlsx" {
		err = importer.WriteTemplateXLSX(out)
	} else {
		err = importer.WriteTemplateCSV(out)
	}
	if err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	fmt.Printf("Template written to %s\n", cmd.OutputPath)
	return nil
}
