package demo

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/vburojevic/demostats/internal/protocol"
)

const (
	// DefaultMaxBlockSize bounds a single block. The largest engine message
	// buffer in use (QuakeSpasm) is well below this.
	DefaultMaxBlockSize = 1 << 20

	maxHeaderLen = 16
	blockHeader  = 4 + 3*4
)

// ReadOptions configures Read.
type ReadOptions struct {
	// Filename is the demo to open. Required by Read, ignored by ReadFrom.
	Filename string
	// MaxBlockSize rejects blocks whose declared length exceeds it.
	// Zero means DefaultMaxBlockSize.
	MaxBlockSize int
}

// Read opens and parses the demo named by opts.Filename. Every failure is
// returned as *Error.
func Read(opts ReadOptions) (*Demo, error) {
	if opts.Filename == "" {
		return nil, newError(ErrOpen, -1, errors.New("no filename given"))
	}
	f, err := os.Open(opts.Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newError(ErrNotFound, -1, nil)
		}
		return nil, newError(ErrOpen, -1, err)
	}
	defer f.Close()

	return ReadFrom(f, opts)
}

// ReadFrom parses a demo from r. Input compressed with gzip, zstd or lz4
// framing is detected by its magic bytes and decompressed on the fly.
func ReadFrom(r io.Reader, opts ReadOptions) (*Demo, error) {
	maxBlock := opts.MaxBlockSize
	if maxBlock <= 0 {
		maxBlock = DefaultMaxBlockSize
	}

	hasher := blake3.New()
	raw := bufio.NewReader(io.TeeReader(r, hasher))

	stream, closeStream, err := decompress(raw)
	if err != nil {
		return nil, newError(ErrCompression, -1, err)
	}

	p := &parser{
		r:          &countingReader{r: bufio.NewReader(stream)},
		maxBlock:   maxBlock,
		framer:     framer{protocol: protocol.ProtocolNetQuake},
		compressed: stream != raw,
	}
	d, err := p.parse()
	closeStream()
	if err != nil {
		return nil, err
	}

	// Hash whatever the decompressor left unread so the digest always
	// covers the whole input.
	if _, err := io.Copy(io.Discard, raw); err != nil {
		return nil, newError(ErrOpen, -1, err)
	}
	copy(d.Digest[:], hasher.Sum(nil))
	return d, nil
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

func decompress(r *bufio.Reader) (io.Reader, func(), error) {
	head, _ := r.Peek(4)
	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, func() { zr.Close() }, nil
	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, zr.Close, nil
	case bytes.HasPrefix(head, magicLZ4):
		return lz4.NewReader(r), func() {}, nil
	}
	return r, func() {}, nil
}

type countingReader struct {
	r   *bufio.Reader
	off int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.off += int64(n)
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.off++
	}
	return b, err
}

type parser struct {
	r        *countingReader
	maxBlock int
	framer   framer
	// compressed is set when reads go through a decompressor, whose
	// failures mean corrupt input rather than an unreadable file.
	compressed bool
}

func (p *parser) parse() (*Demo, error) {
	track, err := p.header()
	if err != nil {
		return nil, err
	}
	d := &Demo{CDTrack: track}

	for {
		b, err := p.block()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		d.Blocks = append(d.Blocks, b)
		if d.Protocol == 0 && p.framer.seen {
			d.Protocol = p.framer.protocol
			d.ProtocolFlags = p.framer.flags
		}
	}
	return d, nil
}

// header reads the CD track line.
func (p *parser) header() (int, error) {
	var line []byte
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, newError(ErrBadHeader, p.r.off, errors.New("missing cd track line"))
			}
			return 0, p.readError(p.r.off, err)
		}
		if b == '\n' {
			break
		}
		line = append(line, b)
		if len(line) > maxHeaderLen {
			return 0, newError(ErrBadHeader, 0, errors.New("cd track line too long"))
		}
	}
	track, err := strconv.Atoi(strings.TrimSpace(string(line)))
	if err != nil {
		return 0, newError(ErrBadHeader, 0, fmt.Errorf("cd track %q", line))
	}
	return track, nil
}

func (p *parser) block() (Block, error) {
	start := p.r.off
	var head [blockHeader]byte
	n, err := io.ReadFull(p.r, head[:])
	if err != nil {
		if n == 0 && err == io.EOF {
			return Block{}, io.EOF
		}
		return Block{}, p.readError(start, err)
	}

	size := int(protocol.Long(head[0:4]))
	if size < 0 || size > p.maxBlock {
		return Block{}, newError(ErrBlockSize, start, fmt.Errorf("%d bytes", size))
	}

	var b Block
	for i := range b.ViewAngles {
		b.ViewAngles[i] = protocol.Float(head[4+4*i:])
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(p.r, data); err != nil {
		return Block{}, p.readError(start, err)
	}

	msgs, err := p.framer.split(data)
	if err != nil {
		off := start + blockHeader
		var fe *frameError
		if errors.As(err, &fe) {
			off += int64(fe.pos)
		}
		if errors.Is(err, errProtocol) {
			return Block{}, newError(ErrUnsupportedProtocol, off, err)
		}
		return Block{}, newError(ErrBadMessage, off, err)
	}
	b.Messages = msgs
	return b, nil
}

func (p *parser) readError(start int64, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return newError(ErrTruncated, start, nil)
	}
	if p.compressed {
		return newError(ErrCompression, start, err)
	}
	return newError(ErrOpen, start, err)
}
