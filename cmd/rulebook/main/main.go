package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/arthur-debert/rulebook/cmd/rulebook"
	"github.com/arthur-debert/rulebook/pkg/ui/styles"
)

func main() {
	if err := rulebook.Execute(context.Background()); err != nil {
		if !errors.Is(err, rulebook.ErrReported) {
			fmt.Fprintln(os.Stderr, styles.Default().Render("Error", fmt.Sprintf("Error: %v", err)))
		}
		os.Exit(1)
	}
}
