package clob

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/cloblabs/clob-go/internal/chainconfig"
	"github.com/cloblabs/clob-go/internal/config"
	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/signer"
)

// UnauthenticatedClient can only read public market data and resolve
// signature-type/funder metadata before calling Authenticate.
type UnauthenticatedClient struct {
	base
}

// NewUnauthenticatedClient builds a fresh client anchored on s for chain
// cfg.Chain.ID. httpClient and logger may be nil to take defaults.
func NewUnauthenticatedClient(cfg config.ClientConfig, s signer.Signer, httpClient *http.Client, logger *slog.Logger) (*UnauthenticatedClient, error) {
	chain, err := chainconfig.Lookup(chainconfig.ChainID(cfg.Chain.ID))
	if err != nil {
		return nil, errs.Validation("unsupported chain: %v", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTP.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	in := &Inner{
		refcount:   1,
		cfg:        cfg,
		chain:      chain,
		signer:     s,
		httpClient: httpClient,
		logger:     logger,
		timeSource: LocalTimeSource{},
		sigType:    signer.SignatureTypeEOA,
	}
	return &UnauthenticatedClient{base{in}}, nil
}

// Clone returns a peer handle co-owning the same underlying state, blocking
// the other handle's state transitions until every clone is released.
func (c *UnauthenticatedClient) Clone() *UnauthenticatedClient {
	return &UnauthenticatedClient{base{c.inner.clone()}}
}

// Close releases this handle's ownership share.
func (c *UnauthenticatedClient) Close() { c.inner.release() }

// AuthenticateParams configures the unauthenticated -> authenticated
// transition.
type AuthenticateParams struct {
	// Credentials, if non-nil, are used as-is. Otherwise CreateCredentials
	// (and, on a status error, DeriveExistingCredentials) are consulted.
	Credentials               *signer.Credentials
	Nonce                     uint32
	Funder                    string
	SignatureType             signer.SignatureType
	CreateCredentials         func(ctx context.Context, l1 signer.L1Headers) (signer.Credentials, error)
	DeriveExistingCredentials func(ctx context.Context, l1 signer.L1Headers) (signer.Credentials, error)
}

// Authenticate signs the L1 envelope, resolves API credentials, and returns
// a new AuthenticatedClient sharing this handle's Inner. A network failure
// while resolving credentials propagates as-is; an HTTP status error falls
// back to DeriveExistingCredentials when one is configured.
func (c *UnauthenticatedClient) Authenticate(ctx context.Context, p AuthenticateParams) (*AuthenticatedClient, error) {
	if p.SignatureType == signer.SignatureTypeEOA {
		if p.Funder != "" {
			return nil, errs.Validation("explicit funder is forbidden for signature type EOA")
		}
	} else {
		if p.Funder == "" {
			switch p.SignatureType {
			case signer.SignatureTypeProxy:
				p.Funder = signer.DeriveProxyWallet(ethcommon.HexToAddress(c.inner.signer.Address)).Hex()
			case signer.SignatureTypeGnosisSafe:
				p.Funder = signer.DeriveSafeWallet(ethcommon.HexToAddress(c.inner.signer.Address)).Hex()
			default:
				return nil, errs.Validation("unsupported signature type %d", p.SignatureType)
			}
		}
		if ethcommon.HexToAddress(p.Funder) == (ethcommon.Address{}) {
			return nil, errs.Validation("zero funder is forbidden for proxy/safe signature types")
		}
	}

	ts, err := c.inner.timeSource.Now(ctx)
	if err != nil {
		return nil, errs.Internal("resolve signing timestamp", err)
	}

	l1, err := signer.SignL1(c.inner.signer, c.inner.chain.ID, ts, p.Nonce)
	if err != nil {
		return nil, errs.Internal("sign L1 envelope", err)
	}

	creds := p.Credentials
	if creds == nil {
		if p.CreateCredentials == nil {
			return nil, errs.Validation("authenticate requires explicit credentials or a CreateCredentials hook")
		}
		created, err := p.CreateCredentials(ctx, l1)
		if err != nil {
			var statusErr *errs.StatusError
			if errors.As(err, &statusErr) && p.DeriveExistingCredentials != nil {
				derived, derr := p.DeriveExistingCredentials(ctx, l1)
				if derr != nil {
					return nil, derr
				}
				created = derived
			} else {
				return nil, err
			}
		}
		creds = &created
	}

	c.inner.stateMu.Lock()
	c.inner.credentials = creds
	c.inner.funder = p.Funder
	c.inner.sigType = p.SignatureType
	c.inner.stateMu.Unlock()

	return &AuthenticatedClient{authBase{base{c.inner}}}, nil
}
