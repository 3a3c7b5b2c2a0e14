package chain

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const smartQueryPath = "/cosmwasm.wasm.v1.Query/SmartContractState"

// encodeSmartQueryRequest encodes QuerySmartContractStateRequest{address=1, query_data=2}.
func encodeSmartQueryRequest(contract string, msg []byte) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, contract)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, msg)
	return b
}

// decodeSmartQueryResponse extracts field 1 (data) of QuerySmartContractStateResponse.
func decodeSmartQueryResponse(b []byte) ([]byte, error) {
	var data []byte
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("decode tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("decode data: %w", protowire.ParseError(n))
			}
			data = append([]byte(nil), v...)
			b = b[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, fmt.Errorf("skip field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return data, nil
}

// wrapData renders contract response bytes the way the CLI prints them.
func wrapData(data []byte) []byte {
	if len(data) == 0 {
		data = []byte("null")
	}
	out := make([]byte, 0, len(data)+9)
	out = append(out, `{"data":`...)
	out = append(out, data...)
	out = append(out, '}')
	return out
}
