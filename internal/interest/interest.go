package interest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/cloblabs/clob-go/internal/model"
)

// Set is a bitset with one bit per message kind.
// It is built purely by OR: an over-broad interest only costs a little extra
// parsing, never correctness, so subscribe grows it monotonically and
// unsubscribe deliberately never shrinks it.
type Set uint32

const (
	Book Set = 1 << iota
	PriceChange
	TickSizeChange
	LastTradePrice
	BestBidAsk
	NewMarket
	MarketResolved
	Trade
	Order
)

// Has reports whether bit is set in s.
func (s Set) Has(bit Set) bool { return s&bit != 0 }

// bitFor maps a message's event_type discriminator onto its Set bit. The
// second return is false for an event_type this SDK does not recognize (a
// forward-compatible server addition); such frames are dropped rather than
// erroring.
func bitFor(et model.EventType) (Set, bool) {
	switch et {
	case model.EventBook:
		return Book, true
	case model.EventPriceChange:
		return PriceChange, true
	case model.EventTickSizeChange:
		return TickSizeChange, true
	case model.EventLastTradePrice:
		return LastTradePrice, true
	case model.EventBestBidAsk:
		return BestBidAsk, true
	case model.EventNewMarket:
		return NewMarket, true
	case model.EventMarketResolved:
		return MarketResolved, true
	case model.EventTrade:
		return Trade, true
	case model.EventOrder:
		return Order, true
	default:
		return 0, false
	}
}

// AtomicSet is a Set mutated and read concurrently without a lock —
// subscribe calls from many goroutines OR bits in while the connection's
// read loop loads the current value on every frame.
type AtomicSet struct {
	bits uint32
}

// Add ORs bits into the set. Safe for concurrent use.
func (s *AtomicSet) Add(bits Set) {
	for {
		old := atomic.LoadUint32(&s.bits)
		next := old | uint32(bits)
		if next == old {
			return
		}
		if atomic.CompareAndSwapUint32(&s.bits, old, next) {
			return
		}
	}
}

// Load returns the current Set.
func (s *AtomicSet) Load() Set { return Set(atomic.LoadUint32(&s.bits)) }

// probe is the shallow pre-scan shape: decoding only this field avoids
// materializing the rest of an uninteresting payload.
type probe struct {
	EventType model.EventType `json:"event_type"`
}

// Parse decodes a frame into the messages whose kind is in want.
// A single JSON object is pre-scanned for event_type and only fully decoded
// if want has that bit set; a JSON array is fully parsed then filtered
// (arrays are assumed homogeneous in practice, but each element's kind is
// checked independently so a mixed batch still filters correctly).
func Parse(data []byte, want Set) ([]model.Message, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		return parseArray(data, want)
	}
	return parseObject(data, want)
}

func parseObject(data []byte, want Set) ([]model.Message, error) {
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("interest: pre-scan event_type: %w", err)
	}
	bit, ok := bitFor(p.EventType)
	if !ok || !want.Has(bit) {
		return nil, nil
	}
	msg, err := decode(p.EventType, data)
	if err != nil {
		return nil, err
	}
	return []model.Message{msg}, nil
}

func parseArray(data []byte, want Set) ([]model.Message, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("interest: decode array frame: %w", err)
	}

	var out []model.Message
	for _, raw := range raws {
		var p probe
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("interest: decode array element: %w", err)
		}
		bit, ok := bitFor(p.EventType)
		if !ok || !want.Has(bit) {
			continue
		}
		msg, err := decode(p.EventType, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

func decode(et model.EventType, data []byte) (model.Message, error) {
	switch et {
	case model.EventBook:
		return decodeAs[model.BookEvent](data)
	case model.EventPriceChange:
		return decodeAs[model.PriceChangeEvent](data)
	case model.EventTickSizeChange:
		return decodeAs[model.TickSizeChangeEvent](data)
	case model.EventLastTradePrice:
		return decodeAs[model.LastTradePriceEvent](data)
	case model.EventBestBidAsk:
		return decodeAs[model.BestBidAskEvent](data)
	case model.EventNewMarket:
		return decodeAs[model.NewMarketEvent](data)
	case model.EventMarketResolved:
		return decodeAs[model.MarketResolvedEvent](data)
	case model.EventTrade:
		return decodeAs[model.TradeEvent](data)
	case model.EventOrder:
		return decodeAs[model.OrderEvent](data)
	default:
		return nil, fmt.Errorf("interest: unknown event_type %q", et)
	}
}

func decodeAs[M model.Message](data []byte) (model.Message, error) {
	var m M
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Parser adapts an AtomicSet into the wsconn.Parser[model.Message] contract:
// the connection manager calls Parse on every inbound text frame without
// needing to know how interest is tracked.
type Parser struct {
	want *AtomicSet
}

// NewParser builds a Parser reading its interest set from want. want is
// typically shared with an internal/submux Multiplexer, which grows it on
// every subscribe.
func NewParser(want *AtomicSet) *Parser {
	return &Parser{want: want}
}

func (p *Parser) Parse(data []byte) ([]model.Message, error) {
	return Parse(data, p.want.Load())
}
