package model

// EventType is the `event_type` discriminator every realtime message
// carries. internal/interest maps each value onto one bit of its interest
// set.
type EventType string

const (
	EventBook            EventType = "book"
	EventPriceChange     EventType = "price_change"
	EventTickSizeChange  EventType = "tick_size_change"
	EventLastTradePrice  EventType = "last_trade_price"
	EventBestBidAsk      EventType = "best_bid_ask"
	EventNewMarket       EventType = "new_market"
	EventMarketResolved  EventType = "market_resolved"
	EventTrade           EventType = "trade"
	EventOrder           EventType = "order"
)

// Message is any realtime event internal/wsconn's parser can hand to the
// broadcast hub. internal/submux filters a consumer's stream by intersecting
// Keys() with the keys that consumer subscribed to.
type Message interface {
	Kind() EventType
	// Keys returns the asset-id(s) (market channel) or market-id(s) (user
	// channel) this message is relevant to. Most event kinds carry exactly
	// one key; Book and PriceChange can carry a market id alongside an asset
	// id, both of which are returned.
	Keys() []string
}

// PriceLevel is one rung of an orderbook's bid or ask side. Prices run bids price-descending, asks
// price-ascending.
type PriceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// OrderbookSnapshot is the full depth of one token's book at a point in
// time. It is both the shape a REST orderbook fetch returns and the payload
// of a "book" realtime event.
type OrderbookSnapshot struct {
	AssetID        string       `json:"asset_id"`
	Market         string       `json:"market"`
	Timestamp      string       `json:"timestamp"`
	Bids           []PriceLevel `json:"bids"`
	Asks           []PriceLevel `json:"asks"`
	TickSize       string       `json:"tick_size"`
	MinOrderSize   string       `json:"min_order_size"`
	NegRisk        bool         `json:"neg_risk"`
	LastTradePrice string       `json:"last_trade_price,omitempty"`
}

// BookEvent is the realtime delivery of an OrderbookSnapshot, sent on
// subscribe (the "initial dump") and on every subsequent full
// book replacement.
type BookEvent struct {
	EventType EventType `json:"event_type"`
	OrderbookSnapshot
}

func (e BookEvent) Kind() EventType { return EventBook }
func (e BookEvent) Keys() []string  { return []string{e.AssetID, e.Market} }

// PriceChangeEntry is one price-level delta inside a PriceChangeEvent.
type PriceChangeEntry struct {
	Price string `json:"price"`
	Side  string `json:"side"`
	Size  string `json:"size"`
}

// PriceChangeEvent carries an incremental update to one or more price levels
// of a token's book.
type PriceChangeEvent struct {
	EventType EventType          `json:"event_type"`
	AssetID   string             `json:"asset_id"`
	Market    string             `json:"market"`
	Timestamp string             `json:"timestamp"`
	Changes   []PriceChangeEntry `json:"changes"`
}

func (e PriceChangeEvent) Kind() EventType { return EventPriceChange }
func (e PriceChangeEvent) Keys() []string  { return []string{e.AssetID, e.Market} }

// TickSizeChangeEvent announces a token's minimum tick size has changed.
type TickSizeChangeEvent struct {
	EventType   EventType `json:"event_type"`
	AssetID     string    `json:"asset_id"`
	Market      string    `json:"market"`
	OldTickSize string    `json:"old_tick_size"`
	NewTickSize string    `json:"new_tick_size"`
	Timestamp   string    `json:"timestamp"`
}

func (e TickSizeChangeEvent) Kind() EventType { return EventTickSizeChange }
func (e TickSizeChangeEvent) Keys() []string  { return []string{e.AssetID, e.Market} }

// LastTradePriceEvent carries the most recent trade price for a token.
type LastTradePriceEvent struct {
	EventType EventType `json:"event_type"`
	AssetID   string    `json:"asset_id"`
	Market    string    `json:"market"`
	Price     string    `json:"price"`
	Side      string    `json:"side"`
	Timestamp string    `json:"timestamp"`
}

func (e LastTradePriceEvent) Kind() EventType { return EventLastTradePrice }
func (e LastTradePriceEvent) Keys() []string  { return []string{e.AssetID, e.Market} }

// BestBidAskEvent carries the current top-of-book for a token.
type BestBidAskEvent struct {
	EventType EventType `json:"event_type"`
	AssetID   string    `json:"asset_id"`
	Market    string    `json:"market"`
	BestBid   string    `json:"best_bid"`
	BestAsk   string    `json:"best_ask"`
	Timestamp string    `json:"timestamp"`
}

func (e BestBidAskEvent) Kind() EventType { return EventBestBidAsk }
func (e BestBidAskEvent) Keys() []string  { return []string{e.AssetID, e.Market} }

// NewMarketEvent announces a newly listed market. It carries no asset/market key a consumer could have
// subscribed to in advance — it is broadcast unconditionally to every market
// channel consumer whose interest set includes it.
type NewMarketEvent struct {
	EventType EventType `json:"event_type"`
	Market    string    `json:"market"`
	Timestamp string    `json:"timestamp"`
}

func (e NewMarketEvent) Kind() EventType { return EventNewMarket }
func (e NewMarketEvent) Keys() []string  { return []string{e.Market} }

// MarketResolvedEvent announces a market's final settlement.
type MarketResolvedEvent struct {
	EventType EventType `json:"event_type"`
	Market    string    `json:"market"`
	Outcome   string    `json:"outcome"`
	Timestamp string    `json:"timestamp"`
}

func (e MarketResolvedEvent) Kind() EventType { return EventMarketResolved }
func (e MarketResolvedEvent) Keys() []string  { return []string{e.Market} }

// TradeEvent reports a fill against one of the authenticated user's orders.
type TradeEvent struct {
	EventType   EventType `json:"event_type"`
	Market      string    `json:"market"`
	AssetID     string    `json:"asset_id"`
	Side        string    `json:"side"`
	Price       string    `json:"price"`
	Size        string    `json:"size"`
	OrderID     string    `json:"order_id"`
	TradeID     string    `json:"trade_id"`
	Status      string    `json:"status"`
	Timestamp   string    `json:"timestamp"`
}

func (e TradeEvent) Kind() EventType { return EventTrade }
func (e TradeEvent) Keys() []string  { return []string{e.Market} }

// OrderEvent reports a lifecycle change (placed/matched/cancelled) of one of
// the authenticated user's orders.
type OrderEvent struct {
	EventType EventType `json:"event_type"`
	Market    string    `json:"market"`
	AssetID   string    `json:"asset_id"`
	OrderID   string    `json:"order_id"`
	Side      string    `json:"side"`
	Price     string    `json:"price"`
	Size      string    `json:"size"`
	SizeMatch string    `json:"size_matched"`
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
}

func (e OrderEvent) Kind() EventType { return EventOrder }
func (e OrderEvent) Keys() []string  { return []string{e.Market} }
