package ledger

import (
	"fmt"
	"strconv"

	"github.com/stellar/go-stellar-sdk/strkey"
	"github.com/stellar/go-stellar-sdk/xdr"
)

// scVal encodes a typed argument as a contract value.
func (a Arg) scVal() (xdr.ScVal, error) {
	switch a.Type {
	case ArgAddress:
		s, _ := a.Value.(string)
		addr, err := scAddress(s)
		if err != nil {
			return xdr.ScVal{}, err
		}
		return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
	case ArgString:
		s, _ := a.Value.(string)
		str := xdr.ScString(s)
		return xdr.ScVal{Type: xdr.ScValTypeScvString, Str: &str}, nil
	case ArgU32:
		n, ok := a.Value.(uint32)
		if !ok {
			return xdr.ScVal{}, fmt.Errorf("u32 argument has type %T", a.Value)
		}
		u := xdr.Uint32(n)
		return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &u}, nil
	case ArgU64:
		s, _ := a.Value.(string)
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return xdr.ScVal{}, fmt.Errorf("u64 argument %q: %w", s, err)
		}
		u := xdr.Uint64(n)
		return xdr.ScVal{Type: xdr.ScValTypeScvU64, U64: &u}, nil
	}
	return xdr.ScVal{}, fmt.Errorf("unsupported argument type %q", a.Type)
}

func scAddress(s string) (xdr.ScAddress, error) {
	if !ValidAddress(s) {
		return xdr.ScAddress{}, fmt.Errorf("%w %q", ErrInvalidAddress, s)
	}
	if strkey.IsValidEd25519PublicKey(s) {
		id, err := xdr.AddressToAccountId(s)
		if err != nil {
			return xdr.ScAddress{}, fmt.Errorf("%w %q", ErrInvalidAddress, s)
		}
		return xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeAccount, AccountId: &id}, nil
	}
	raw, err := strkey.Decode(strkey.VersionByteContract, s)
	if err != nil {
		return xdr.ScAddress{}, fmt.Errorf("%w %q", ErrInvalidAddress, s)
	}
	var id xdr.ContractId
	copy(id[:], raw)
	return xdr.ScAddress{Type: xdr.ScAddressTypeScAddressTypeContract, ContractId: &id}, nil
}

// nativeValue converts a contract return value into a JSON-friendly form.
// u64 and i64 become decimal strings; struct maps keep their field names.
func nativeValue(v xdr.ScVal) (any, error) {
	switch v.Type {
	case xdr.ScValTypeScvVoid:
		return nil, nil
	case xdr.ScValTypeScvBool:
		b, _ := v.GetB()
		return b, nil
	case xdr.ScValTypeScvU32:
		n, _ := v.GetU32()
		return uint32(n), nil
	case xdr.ScValTypeScvI32:
		n, _ := v.GetI32()
		return int32(n), nil
	case xdr.ScValTypeScvU64:
		n, _ := v.GetU64()
		return strconv.FormatUint(uint64(n), 10), nil
	case xdr.ScValTypeScvI64:
		n, _ := v.GetI64()
		return strconv.FormatInt(int64(n), 10), nil
	case xdr.ScValTypeScvString:
		s, _ := v.GetStr()
		return string(s), nil
	case xdr.ScValTypeScvSymbol:
		s, _ := v.GetSym()
		return string(s), nil
	case xdr.ScValTypeScvAddress:
		addr, _ := v.GetAddress()
		return addr.String()
	case xdr.ScValTypeScvVec:
		vec, _ := v.GetVec()
		out := []any{}
		if vec == nil {
			return out, nil
		}
		for _, item := range *vec {
			n, err := nativeValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case xdr.ScValTypeScvMap:
		m, _ := v.GetMap()
		out := map[string]any{}
		if m == nil {
			return out, nil
		}
		for _, entry := range *m {
			key, err := nativeValue(entry.Key)
			if err != nil {
				return nil, err
			}
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("unsupported map key type %s", entry.Key.Type)
			}
			val, err := nativeValue(entry.Val)
			if err != nil {
				return nil, err
			}
			out[name] = val
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported contract value type %s", v.Type)
}
