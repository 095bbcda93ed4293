package relay

import (
	"encoding/json"

	"relaychat/module/chat/model"
	"relaychat/tools/errs"
)

// Envelope is the wire form of a message on the relay queue:
// plain JSON, one message per delivery, safe to redeliver.
func Encode(msg *model.Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errs.WrapMsg(err, "encode relay envelope")
	}
	return data, nil
}

func Decode(data []byte) (*model.Message, error) {
	var msg model.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errs.WrapMsg(err, "decode relay envelope")
	}
	return &msg, nil
}
