//go:build !darwin && !windows && !linux

package probe

import "context"

func (systemNamer) NetworkName(context.Context) string {
	return "Unsupported OS"
}
