package outbound

import (
	"fmt"
	"strings"
	"time"

	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

const senderID = "ULTRATMS"

// Generator renders one transaction type. Pure transformation: payload plus
// envelope triple in, raw wire content out. No I/O, no persistence.
type Generator interface {
	TransactionType() models.TransactionType
	Generate(payload map[string]interface{}, triple models.EnvelopeTriple, receiverID string) (string, error)
}

// Registry holds one generator per transaction type.
type Registry struct {
	generators map[models.TransactionType]Generator
}

func NewRegistry() *Registry {
	r := &Registry{generators: make(map[models.TransactionType]Generator)}
	r.Register(tenderGenerator{})
	r.Register(invoiceGenerator{})
	r.Register(statusGenerator{})
	r.Register(responseGenerator{})
	r.Register(ackGenerator{})
	return r
}

func (r *Registry) Register(g Generator) {
	r.generators[g.TransactionType()] = g
}

func (r *Registry) For(t models.TransactionType) (Generator, error) {
	g, ok := r.generators[t]
	if !ok {
		return nil, fmt.Errorf("no generator registered for transaction type %s", t)
	}
	return g, nil
}

func functionalGroupCode(t models.TransactionType) string {
	switch t {
	case models.Transaction204:
		return "SM"
	case models.Transaction210:
		return "IM"
	case models.Transaction214:
		return "QM"
	case models.Transaction990:
		return "GF"
	case models.Transaction997:
		return "FA"
	}
	return "ZZ"
}

// envelope wraps the body segments in the ISA/GS/ST .. SE/GE/IEA frame,
// embedding the allocated control numbers at their envelope levels.
func envelope(t models.TransactionType, triple models.EnvelopeTriple, receiverID string, body []string) string {
	now := time.Now().UTC()
	segments := make([]string, 0, len(body)+6)
	segments = append(segments,
		fmt.Sprintf("ISA*00*          *00*          *ZZ*%-15s*ZZ*%-15s*%s*%s*U*00401*%s*0*P*>",
			senderID, receiverID, now.Format("060102"), now.Format("1504"), triple.ISA),
		fmt.Sprintf("GS*%s*%s*%s*%s*%s*%s*X*004010",
			functionalGroupCode(t), senderID, receiverID, now.Format("20060102"), now.Format("1504"), triple.GS),
		fmt.Sprintf("ST*%s*%s", t, triple.ST),
	)
	segments = append(segments, body...)
	segments = append(segments,
		fmt.Sprintf("SE*%d*%s", len(body)+2, triple.ST),
		fmt.Sprintf("GE*1*%s", triple.GS),
		fmt.Sprintf("IEA*1*%s", triple.ISA),
	)
	return strings.Join(segments, "~\n") + "~"
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	if v, ok := payload[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// tenderGenerator renders a 204 shipment tender.
type tenderGenerator struct{}

func (tenderGenerator) TransactionType() models.TransactionType { return models.Transaction204 }

func (tenderGenerator) Generate(payload map[string]interface{}, triple models.EnvelopeTriple, receiverID string) (string, error) {
	loadID := payloadString(payload, "loadId")
	if loadID == "" {
		return "", fmt.Errorf("204 tender requires loadId")
	}
	body := []string{
		fmt.Sprintf("B2**%s**%s**CC", senderID, loadID),
		"B2A*00*LT",
		fmt.Sprintf("L11*%s*SI", loadID),
	}
	return envelope(models.Transaction204, triple, receiverID, body), nil
}

// invoiceGenerator renders a 210 motor carrier invoice.
type invoiceGenerator struct{}

func (invoiceGenerator) TransactionType() models.TransactionType { return models.Transaction210 }

func (invoiceGenerator) Generate(payload map[string]interface{}, triple models.EnvelopeTriple, receiverID string) (string, error) {
	invoiceID := payloadString(payload, "invoiceId")
	if invoiceID == "" {
		return "", fmt.Errorf("210 invoice requires invoiceId")
	}
	body := []string{
		fmt.Sprintf("B3**%s*%s*CC*L*%s", invoiceID, payloadString(payload, "loadId"), time.Now().UTC().Format("20060102")),
		fmt.Sprintf("L11*%s*IK", invoiceID),
	}
	if amount := payloadString(payload, "amount"); amount != "" {
		body = append(body, fmt.Sprintf("L3*%s", amount))
	}
	return envelope(models.Transaction210, triple, receiverID, body), nil
}

// statusGenerator renders a 214 shipment status update.
type statusGenerator struct{}

func (statusGenerator) TransactionType() models.TransactionType { return models.Transaction214 }

func (statusGenerator) Generate(payload map[string]interface{}, triple models.EnvelopeTriple, receiverID string) (string, error) {
	loadID := payloadString(payload, "loadId")
	if loadID == "" {
		return "", fmt.Errorf("214 status requires loadId")
	}
	statusCode := payloadString(payload, "statusCode")
	if statusCode == "" {
		statusCode = "X6"
	}
	body := []string{
		fmt.Sprintf("B10*%s*%s*%s", loadID, loadID, senderID),
		fmt.Sprintf("AT7*%s*NS***%s*%s", statusCode, time.Now().UTC().Format("20060102"), time.Now().UTC().Format("1504")),
	}
	return envelope(models.Transaction214, triple, receiverID, body), nil
}

// responseGenerator renders a 990 tender response.
type responseGenerator struct{}

func (responseGenerator) TransactionType() models.TransactionType { return models.Transaction990 }

func (responseGenerator) Generate(payload map[string]interface{}, triple models.EnvelopeTriple, receiverID string) (string, error) {
	loadID := payloadString(payload, "loadId")
	if loadID == "" {
		return "", fmt.Errorf("990 response requires loadId")
	}
	decision := "A"
	if payloadString(payload, "accepted") == "false" {
		decision = "D"
	}
	body := []string{
		fmt.Sprintf("B1*%s*%s*%s*%s", senderID, loadID, time.Now().UTC().Format("20060102"), decision),
	}
	return envelope(models.Transaction990, triple, receiverID, body), nil
}

// ackGenerator renders a 997 functional acknowledgment.
type ackGenerator struct{}

func (ackGenerator) TransactionType() models.TransactionType { return models.Transaction997 }

func (ackGenerator) Generate(payload map[string]interface{}, triple models.EnvelopeTriple, receiverID string) (string, error) {
	originalID := payloadString(payload, "originalMessageId")
	if originalID == "" {
		return "", fmt.Errorf("997 acknowledgment requires originalMessageId")
	}
	ackCode := "A"
	if status := payloadString(payload, "ackStatus"); status == string(models.AckRejected) {
		ackCode = "R"
	} else if status == string(models.AckPartial) {
		ackCode = "P"
	}
	body := []string{
		fmt.Sprintf("AK1*%s*%s", payloadString(payload, "originalGroupCode"), originalID),
		fmt.Sprintf("AK9*%s*1*1*1", ackCode),
	}
	return envelope(models.Transaction997, triple, receiverID, body), nil
}
