package clob

import (
	"context"
	"net/http"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/signer"
)

// L1AuthHeaders signs the typed-data authentication envelope and returns the
// four headers a credential-issuance request carries.
func (b base) L1AuthHeaders(ctx context.Context, nonce uint32) (http.Header, error) {
	ts, err := b.inner.timeSource.Now(ctx)
	if err != nil {
		return nil, errs.Internal("resolve signing timestamp", err)
	}
	l1, err := signer.SignL1(b.inner.signer, b.inner.chain.ID, ts, nonce)
	if err != nil {
		return nil, errs.Internal("sign L1 envelope", err)
	}
	h := http.Header{}
	setL1Headers(h, l1)
	return h, nil
}

// APIKey returns the key id of the credentials this handle authenticated
// with; it is the owner tag stamped onto submitted orders.
func (a authBase) APIKey() string {
	creds := a.inner.storedCredentials()
	if creds == nil {
		return ""
	}
	return creds.Key
}

// SignedHeaders computes the per-request HMAC headers for method/path/body.
// Both authenticated and builder handles satisfy the REST surfaces'
// HeaderSigner with this.
func (a authBase) SignedHeaders(ctx context.Context, method, path, body string) (http.Header, error) {
	hdr, _, err := a.l2Headers(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	setL2Headers(h, hdr)
	return h, nil
}

func (a authBase) l2Headers(ctx context.Context, method, path, body string) (signer.L2Headers, int64, error) {
	creds := a.inner.storedCredentials()
	if creds == nil {
		return signer.L2Headers{}, 0, errs.Validation("no credentials held; authenticate first")
	}
	ts, err := a.inner.timeSource.Now(ctx)
	if err != nil {
		return signer.L2Headers{}, 0, errs.Internal("resolve signing timestamp", err)
	}
	hdr, err := signer.SignRequest(*creds, a.inner.signer.Address, ts, method, path, body)
	if err != nil {
		return signer.L2Headers{}, 0, errs.Internal("sign request", err)
	}
	return hdr, ts, nil
}

// SignedHeaders computes the ordinary HMAC headers plus the second,
// builder-credential header set, both over the same timestamp.
func (c *BuilderClient) SignedHeaders(ctx context.Context, method, path, body string) (http.Header, error) {
	hdr, ts, err := c.l2Headers(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	builderHdr, err := c.SignBuilderRequest(ctx, method, path, body, ts)
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	setL2Headers(h, hdr)
	setBuilderHeaders(h, builderHdr)
	return h, nil
}
