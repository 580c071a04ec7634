package entity

import (
	"context"
	"os"
	"strings"
	"time"
)

type CompressionUsecase interface {
	Compress(ctx context.Context, req CompressionRequest) error
}

// Method is the compression applied to the single archive entry.
type Method int

const (
	MethodDeflate Method = iota + 1
	MethodStore
	MethodBzip2
	MethodZstd
)

// DefaultMethod is used whenever the user's selection cannot be mapped.
const DefaultMethod = MethodDeflate

func (m Method) String() string {
	switch m {
	case MethodDeflate:
		return "Deflated"
	case MethodStore:
		return "Stored"
	case MethodBzip2:
		return "Bzip2"
	case MethodZstd:
		return "Zstd"
	default:
		return "unknown"
	}
}

func (m Method) Valid() bool {
	return m >= MethodDeflate && m <= MethodZstd
}

// ParseMethod maps a menu selector ("1".."4") to a Method. Anything else
// yields DefaultMethod and ok == false so the caller can warn.
func ParseMethod(choice string) (m Method, ok bool) {
	switch strings.TrimSpace(choice) {
	case "1":
		return MethodDeflate, true
	case "2":
		return MethodStore, true
	case "3":
		return MethodBzip2, true
	case "4":
		return MethodZstd, true
	}
	return DefaultMethod, false
}

type CompressionRequest struct {
	Source      string
	Destination string
	Method      Method
}

type FileObject struct {
	Name    string
	Body    []byte
	Mode    os.FileMode
	ModTime time.Time
}
