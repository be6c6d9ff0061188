package gateway

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophnotes/internal/conversation"
)

// chat ids travel as strings: Struct numbers are doubles and would lose
// precision above 2^53.
func encodeRequest(chatID int64, text string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"chat_id": structpb.NewStringValue(strconv.FormatInt(chatID, 10)),
		"text":    structpb.NewStringValue(text),
	}}
}

func decodeRequest(req *structpb.Struct) (int64, string, error) {
	f := req.GetFields()

	raw, ok := f["chat_id"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return 0, "", fmt.Errorf("chat_id must be a string")
	}
	chatID, err := strconv.ParseInt(raw.StringValue, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("chat_id: %w", err)
	}

	text, ok := f["text"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return 0, "", fmt.Errorf("text must be a string")
	}

	return chatID, text.StringValue, nil
}

func encodeReplies(replies []conversation.Reply) *structpb.Struct {
	list := make([]*structpb.Value, 0, len(replies))
	for _, r := range replies {
		fields := map[string]*structpb.Value{
			"text":     structpb.NewStringValue(r.Text),
			"awaiting": structpb.NewBoolValue(r.Awaiting),
			"secret":   structpb.NewBoolValue(r.Secret),
		}
		if r.Menu != nil {
			rows := make([]*structpb.Value, 0, len(r.Menu))
			for _, row := range r.Menu {
				labels := make([]*structpb.Value, 0, len(row))
				for _, l := range row {
					labels = append(labels, structpb.NewStringValue(l))
				}
				rows = append(rows, structpb.NewListValue(&structpb.ListValue{Values: labels}))
			}
			fields["menu"] = structpb.NewListValue(&structpb.ListValue{Values: rows})
		}
		list = append(list, structpb.NewStructValue(&structpb.Struct{Fields: fields}))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"replies": structpb.NewListValue(&structpb.ListValue{Values: list}),
	}}
}

func decodeReplies(resp *structpb.Struct) ([]conversation.Reply, error) {
	v, ok := resp.GetFields()["replies"]
	if !ok {
		return nil, fmt.Errorf("response has no replies")
	}

	var out []conversation.Reply
	for i, item := range v.GetListValue().GetValues() {
		s := item.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("reply %d is not an object", i)
		}
		r := conversation.Reply{
			Text:     s.GetFields()["text"].GetStringValue(),
			Awaiting: s.GetFields()["awaiting"].GetBoolValue(),
			Secret:   s.GetFields()["secret"].GetBoolValue(),
		}
		if m, ok := s.GetFields()["menu"]; ok {
			r.Menu = conversation.Menu{}
			for _, row := range m.GetListValue().GetValues() {
				var labels []string
				for _, l := range row.GetListValue().GetValues() {
					labels = append(labels, l.GetStringValue())
				}
				r.Menu = append(r.Menu, labels)
			}
		}
		out = append(out, r)
	}
	return out, nil
}
