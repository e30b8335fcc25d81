package modpack

import (
	"fmt"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

// DescriptorNotFoundError reports a package with no descriptor in the registry.
type DescriptorNotFoundError struct {
	Package string
	Path    string
}

func (e *DescriptorNotFoundError) Error() string {
	return fmt.Sprintf(messages.ModpackNotFoundFmt, e.Package, e.Path)
}

// DescriptorParseError reports a descriptor that could not be decoded.
type DescriptorParseError struct {
	Package string
	Path    string
	Err     error
}

func (e *DescriptorParseError) Error() string {
	return fmt.Sprintf(messages.ModpackParseFailedFmt, e.Package, e.Path, e.Err)
}

func (e *DescriptorParseError) Unwrap() error {
	return e.Err
}
