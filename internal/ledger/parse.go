package ledger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vk/tanglestat/internal/ctxlog"
)

// Record-level invalidation causes. A record failing one of these checks is
// kept in the sequence as an invalid node; the parse itself continues. They
// are exported for diagnostics and tests only; callers of Parse observe
// just the resulting invalid marking.
var (
	ErrZeroNode         = errors.New("node 0 is not a valid node")
	ErrFutureRef        = errors.New("nodes cannot reference future nodes")
	ErrSelfRef          = errors.New("nodes cannot only reference themselves")
	ErrNoValidRef       = errors.New("node needs one valid ref")
	ErrInvalidTimestamp = errors.New("node has invalid timestamp")
	ErrParse            = errors.New("failed to parse node")
)

// errTruncatedRecord marks a record line that runs out of fields. Unlike
// the causes above it is fatal: the stream itself is malformed.
var errTruncatedRecord = errors.New("record has fewer than three fields")

// Parse reads a ledger from its text serialization.
//
// The first line declares the record count N; each of the next N lines
// holds three whitespace-separated unsigned integers: left reference,
// right reference (both 1-indexed, 1 addressing the synthetic origin) and
// timestamp. Anything after the N records must be blank.
//
// Records are validated strictly in input order against the records already
// processed. A record that fails validation becomes an invalid node and the
// pass continues; a returned error means the whole stream is unusable
// (malformed header, truncated stream, trailing content, undecodable bytes
// or a read fault) and no partial result exists.
func Parse(ctx context.Context, r io.Reader) (*Ledger, error) {
	logger := ctxlog.FromContext(ctx)
	sc := bufio.NewScanner(r)

	header, err := scanLine(sc)
	if err != nil {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, errors.New("missing record count header")
	}
	numNodes, err := strconv.ParseUint(header, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse record count %q: %w", header, err)
	}
	logger.Debug("Ledger header read.", "declared_records", numNodes)

	// Internal sequence: the synthetic origin occupies slot 0 so that the
	// 1-indexed input token 1 resolves to position 0. Grown on demand; the
	// declared count is not trusted for allocation.
	nodes := []Node{ValidNode(0, 0, 0)}

	for i := uint64(0); i < numNodes; i++ {
		line, err := scanLine(sc)
		if errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected end of input")
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", i+1, err)
		}

		node, err := parseNode(line, nodes)
		switch {
		case err == nil:
			nodes = append(nodes, node)
		case errors.Is(err, errTruncatedRecord):
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		default:
			logger.Debug("Record failed validation.", "record", i+1, "cause", err)
			nodes = append(nodes, InvalidNode())
		}
	}

	// The stream must be exhausted of meaningful content.
	for {
		line, err := scanLine(sc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trailing input: %w", err)
		}
		if strings.TrimSpace(line) != "" {
			return nil, errors.New("expected end of input")
		}
	}

	// Strip the origin; refs stay expressed in the origin-rooted space.
	return &Ledger{Nodes: nodes[1:]}, nil
}

// scanLine returns the next input line, io.EOF at end of stream, or the
// underlying read fault. Lines must decode as UTF-8 text.
func scanLine(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := sc.Text()
	if !utf8.ValidString(line) {
		return "", errors.New("input is not valid UTF-8 text")
	}
	return line, nil
}

// parseNode validates one record line against the already-processed
// internal sequence and resolves its references. The returned error is one
// of the invalidation causes, or errTruncatedRecord when the line does not
// even carry three fields.
func parseNode(line string, nodes []Node) (Node, error) {
	// One past the slot the current record will occupy. The bound check
	// below deliberately admits a reference to exactly this position even
	// though it can never materialize within the pass; the resolution step
	// then treats it as a concrete position.
	bound := uint64(len(nodes) + 1)

	// Tokens are consumed strictly left to right: a missing token is a
	// stream fault (errTruncatedRecord), while a present but unparsable
	// token only invalidates this record. A line like "1 x" is therefore
	// recoverable, but "1 1" is not.
	fields := strings.Fields(line)
	token := func(i int) (uint64, error) {
		if i >= len(fields) {
			return 0, errTruncatedRecord
		}
		v, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return v, nil
	}

	leftToken, err := token(0)
	if err != nil {
		return Node{}, err
	}
	rightToken, err := token(1)
	if err != nil {
		return Node{}, err
	}
	timestamp, err := token(2)
	if err != nil {
		return Node{}, err
	}

	// Position tokens are 1-indexed; 0 is not addressable.
	if leftToken == 0 || rightToken == 0 {
		return Node{}, ErrZeroNode
	}

	// Change to zero index. Kept in uint64 until the bound checks pass so
	// oversized tokens cannot wrap into small positions.
	left := leftToken - 1
	right := rightToken - 1

	if left > bound || right > bound {
		return Node{}, ErrFutureRef
	}

	if left == bound && right == bound {
		return Node{}, ErrSelfRef
	}

	if earlierTimestamp(int(left), timestamp, nodes) || earlierTimestamp(int(right), timestamp, nodes) {
		return Node{}, ErrInvalidTimestamp
	}

	leftRef := resolveRef(int(left), nodes)
	rightRef := resolveRef(int(right), nodes)
	if leftRef == NoRef && rightRef == NoRef {
		return Node{}, ErrNoValidRef
	}

	return ValidNode(leftRef, rightRef, timestamp), nil
}

// resolveRef resolves a 0-indexed position: a slot already holding an
// invalid node resolves to NoRef; a valid or not-yet-materialized slot
// resolves to the position itself.
func resolveRef(pos int, nodes []Node) Ref {
	if pos < len(nodes) && !nodes[pos].Valid {
		return NoRef
	}
	return Ref(pos)
}

// earlierTimestamp reports whether the candidate timestamp precedes the
// timestamp of an already-valid record at pos. Invalid and
// not-yet-materialized slots carry no timestamp to compare against.
func earlierTimestamp(pos int, timestamp uint64, nodes []Node) bool {
	return pos < len(nodes) && nodes[pos].Valid && timestamp < nodes[pos].Timestamp
}
