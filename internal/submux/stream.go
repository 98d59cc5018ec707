package submux

import (
	"github.com/cloblabs/clob-go/internal/interest"
	"github.com/cloblabs/clob-go/internal/model"
)

// kindBit mirrors interest.bitFor but lives here since that mapping is
// unexported; Stream needs it to decide whether a broadcast message is one
// this consumer asked for.
func kindBit(et model.EventType) (interest.Set, bool) {
	switch et {
	case model.EventBook:
		return interest.Book, true
	case model.EventPriceChange:
		return interest.PriceChange, true
	case model.EventTickSizeChange:
		return interest.TickSizeChange, true
	case model.EventLastTradePrice:
		return interest.LastTradePrice, true
	case model.EventBestBidAsk:
		return interest.BestBidAsk, true
	case model.EventNewMarket:
		return interest.NewMarket, true
	case model.EventMarketResolved:
		return interest.MarketResolved, true
	case model.EventTrade:
		return interest.Trade, true
	case model.EventOrder:
		return interest.Order, true
	default:
		return 0, false
	}
}

// Stream is a lazy, per-consumer sequence: it reads
// every message the connection broadcasts but yields only those whose kind
// is in want and whose embedded key is one this consumer subscribed to.
// Dropping a Stream (simply no longer calling Next) is how a consumer
// cancels — the connection and other consumers are unaffected.
type Stream struct {
	recv Receiver
	keys map[string]struct{}
	want interest.Set
}

func newStream(recv Receiver, keys map[string]struct{}, want interest.Set) *Stream {
	return &Stream{recv: recv, keys: keys, want: want}
}

// Next blocks until a message matching this stream's interest and keys
// arrives, the connection closes (ErrStreamClosed), or the consumer lagged
// (*LaggedError). A lag must be reconciled by the caller before Next is
// called again; the stream resumes from the oldest message still buffered.
func (s *Stream) Next() (model.Message, error) {
	for {
		msg, lagged, closed := s.recv.Recv()
		if lagged > 0 {
			return nil, &LaggedError{Count: lagged}
		}
		if closed {
			return nil, ErrStreamClosed
		}

		bit, ok := kindBit(msg.Kind())
		if !ok || !s.want.Has(bit) {
			continue
		}
		if !keyMatches(s.keys, msg.Keys()) {
			continue
		}
		return msg, nil
	}
}

func keyMatches(keys map[string]struct{}, candidates []string) bool {
	for _, c := range candidates {
		if _, ok := keys[c]; ok {
			return true
		}
	}
	return false
}
