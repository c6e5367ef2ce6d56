package commands

import (
	"fmt"
	"io"

	"github.com/colonyops/extguard/internal/core/styles"
)

func success(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, styles.AllowedStyle.Render(styles.IconAllowed)+" "+fmt.Sprintf(format, args...))
}

func warn(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, styles.BlockedStyle.Render(styles.IconBlocked)+" "+fmt.Sprintf(format, args...))
}
