package directory

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"yacen/internal/crypto"
	"yacen/internal/domain"
	"yacen/internal/rpcauth"
)

var (
	// ErrNotFound is returned by Lookup when the directory has no contact.
	ErrNotFound = errors.New("contact not found")

	// ErrFingerprintMismatch is returned when the directory answers a lookup
	// with a contact whose key does not hash to the requested fingerprint.
	ErrFingerprintMismatch = errors.New("contact key does not match fingerprint")
)

// Client talks to a directory over gRPC. Requests are signed with the local
// profile key and responses must be signed by the pinned server key.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the directory at addr. Extra options are applied after the
// defaults, so callers may replace the transport.
func Dial(
	addr string,
	signer *rpcauth.MessageSigner,
	verifier *rpcauth.ResponseVerifier,
	opts ...grpc.DialOption,
) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(rpcauth.UnaryClientInterceptor(signer, verifier)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dial directory %s", addr)
	}
	return &Client{conn: conn}, nil
}

// Publish uploads contact to the directory.
func (c *Client) Publish(ctx context.Context, contact domain.Contact) error {
	b, err := json.Marshal(contact)
	if err != nil {
		return err
	}
	return c.conn.Invoke(ctx, publishMethod, wrapperspb.Bytes(b), new(emptypb.Empty))
}

// Lookup fetches the contact for fp and checks that its key matches.
func (c *Client) Lookup(ctx context.Context, fp domain.Fingerprint) (domain.Contact, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.conn.Invoke(ctx, lookupMethod, wrapperspb.String(fp.String()), out); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.Contact{}, errors.Wrap(ErrNotFound, fp.String())
		}
		return domain.Contact{}, err
	}
	var contact domain.Contact
	if err := json.Unmarshal(out.GetValue(), &contact); err != nil {
		return domain.Contact{}, errors.Wrap(err, "decode contact")
	}
	if crypto.Fingerprint(contact.PublicKey.Slice()) != fp {
		return domain.Contact{}, ErrFingerprintMismatch
	}
	return contact, nil
}

// Close releases the connection.
func (c *Client) Close() error { return c.conn.Close() }

// Compile-time assertion that Client implements domain.DirectoryClient.
var _ domain.DirectoryClient = (*Client)(nil)
