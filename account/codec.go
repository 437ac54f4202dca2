package account

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/ouh-labs/ouh"
)

// Record is implemented by *Config, *User and *Transaction.
type Record interface {
	Kind() Kind
	Validate() error
	MarshalWithEncoder(enc *bin.Encoder) error
	UnmarshalWithDecoder(dec *bin.Decoder) error
}

var (
	_ Record = (*Config)(nil)
	_ Record = (*User)(nil)
	_ Record = (*Transaction)(nil)
)

var le = binary.LittleEndian

// New returns a zero record of the given kind.
func New(k Kind) (Record, error) {
	switch k {
	case KindConfig:
		return &Config{}, nil
	case KindUser:
		return &User{}, nil
	case KindTransaction:
		return &Transaction{}, nil
	default:
		return nil, fmt.Errorf("unknown record kind %d", uint8(k))
	}
}

// Encode serializes r behind its discriminator and zero-pads the
// result to the kind's Space.
func Encode(r Record) ([]byte, error) {
	space := r.Kind().Space()
	buf := bytes.NewBuffer(make([]byte, 0, space))
	enc := bin.NewBorshEncoder(buf)

	d := r.Kind().Discriminator()
	if err := enc.WriteBytes(d[:], false); err != nil {
		return nil, fmt.Errorf("write discriminator: %w", err)
	}
	if err := r.MarshalWithEncoder(enc); err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.Kind(), err)
	}
	if buf.Len() > space {
		return nil, fmt.Errorf("encode %s: %d bytes exceed allocated %d", r.Kind(), buf.Len(), space)
	}
	out := make([]byte, space)
	copy(out, buf.Bytes())
	return out, nil
}

// Decode reads data into r after checking the discriminator. Trailing
// padding is ignored.
func Decode(data []byte, r Record) error {
	k, ok := KindOf(data)
	if !ok || k != r.Kind() {
		return ouh.ErrAccountDiscriminatorMismatch.Withf("expected %s", r.Kind())
	}
	if err := r.UnmarshalWithDecoder(bin.NewBorshDecoder(data[DiscriminatorSize:])); err != nil {
		return fmt.Errorf("decode %s: %w", r.Kind(), err)
	}
	return nil
}

// DecodeAny decodes whichever record data holds.
func DecodeAny(data []byte) (Record, error) {
	k, ok := KindOf(data)
	if !ok {
		return nil, ouh.ErrAccountDiscriminatorMismatch.Withf("unknown discriminator")
	}
	r, err := New(k)
	if err != nil {
		return nil, err
	}
	if err := Decode(data, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ---------------------------------------------------------------------------
// Field layouts
// ---------------------------------------------------------------------------

func (c *Config) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(c.Admin[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint16(c.CryptoFeeBps, le); err != nil {
		return err
	}
	if err := enc.WriteUint16(c.AirtimeFeeBps, le); err != nil {
		return err
	}
	if err := enc.WriteUint64(c.MinLimit, le); err != nil {
		return err
	}
	if err := enc.WriteUint64(c.MaxLimit, le); err != nil {
		return err
	}
	return enc.WriteBool(c.Paused)
}

func (c *Config) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if c.Admin, err = readPublicKey(dec); err != nil {
		return err
	}
	if c.CryptoFeeBps, err = dec.ReadUint16(le); err != nil {
		return err
	}
	if c.AirtimeFeeBps, err = dec.ReadUint16(le); err != nil {
		return err
	}
	if c.MinLimit, err = dec.ReadUint64(le); err != nil {
		return err
	}
	if c.MaxLimit, err = dec.ReadUint64(le); err != nil {
		return err
	}
	c.Paused, err = readBool(dec)
	return err
}

func (u *User) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(u.Phone[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(u.Wallet[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(u.PinHash[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint64(u.TotalVolume, le); err != nil {
		return err
	}
	if err := enc.WriteInt64(u.RegisteredAt, le); err != nil {
		return err
	}
	return enc.WriteUint8(uint8(u.Status))
}

func (u *User) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err = readFixed(dec, u.Phone[:]); err != nil {
		return err
	}
	if u.Wallet, err = readPublicKey(dec); err != nil {
		return err
	}
	if err = readFixed(dec, u.PinHash[:]); err != nil {
		return err
	}
	if u.TotalVolume, err = dec.ReadUint64(le); err != nil {
		return err
	}
	if u.RegisteredAt, err = dec.ReadInt64(le); err != nil {
		return err
	}
	status, err := readEnum(dec, uint8(UserSuspended))
	u.Status = UserStatus(status)
	return err
}

func (t *Transaction) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(t.TxID[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(t.UserPhone[:], false); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(t.Type)); err != nil {
		return err
	}
	if err := enc.WriteUint64(t.AmountNGN, le); err != nil {
		return err
	}
	if t.AmountUSDC == nil {
		if err := enc.WriteBool(false); err != nil {
			return err
		}
	} else {
		if err := enc.WriteBool(true); err != nil {
			return err
		}
		if err := enc.WriteUint64(*t.AmountUSDC, le); err != nil {
			return err
		}
	}
	if err := enc.WriteUint8(uint8(t.Status)); err != nil {
		return err
	}
	if err := enc.WriteInt64(t.Timestamp, le); err != nil {
		return err
	}
	return enc.WriteUint64(t.Fee, le)
}

func (t *Transaction) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err = readFixed(dec, t.TxID[:]); err != nil {
		return err
	}
	if err = readFixed(dec, t.UserPhone[:]); err != nil {
		return err
	}
	kind, err := readEnum(dec, uint8(TransactionAirtime))
	if err != nil {
		return err
	}
	t.Type = TransactionType(kind)
	if t.AmountNGN, err = dec.ReadUint64(le); err != nil {
		return err
	}
	present, err := readBool(dec)
	if err != nil {
		return err
	}
	t.AmountUSDC = nil
	if present {
		v, err := dec.ReadUint64(le)
		if err != nil {
			return err
		}
		t.AmountUSDC = &v
	}
	status, err := readEnum(dec, uint8(TransactionFailed))
	if err != nil {
		return err
	}
	t.Status = TransactionStatus(status)
	if t.Timestamp, err = dec.ReadInt64(le); err != nil {
		return err
	}
	t.Fee, err = dec.ReadUint64(le)
	return err
}

func readFixed(dec *bin.Decoder, dst []byte) error {
	b, err := dec.ReadNBytes(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func readPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	var pk solana.PublicKey
	err := readFixed(dec, pk[:])
	return pk, err
}

// readBool accepts only the canonical 0 and 1 bytes.
func readBool(dec *bin.Decoder) (bool, error) {
	b, err := dec.ReadUint8()
	if err != nil {
		return false, err
	}
	if b > 1 {
		return false, fmt.Errorf("invalid bool byte %d", b)
	}
	return b == 1, nil
}

func readEnum(dec *bin.Decoder, max uint8) (uint8, error) {
	v, err := dec.ReadUint8()
	if err != nil {
		return 0, err
	}
	if v > max {
		return 0, fmt.Errorf("enum ordinal %d out of range", v)
	}
	return v, nil
}
