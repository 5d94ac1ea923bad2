package responder

import "fmt"

// Bucket is a coarse response family shared by many fine-grained intents.
type Bucket int

const (
	GeneralInquiry Bucket = iota
	TransferMoney
	CardIssues
	ExchangeInfo
	SecurityIssues
	bucketCount
)

var bucketNames = [bucketCount]string{
	GeneralInquiry: "general_inquiry",
	TransferMoney:  "transfer_money",
	CardIssues:     "card_issues",
	ExchangeInfo:   "exchange_info",
	SecurityIssues: "security_issues",
}

func (b Bucket) String() string {
	if b < 0 || b >= bucketCount {
		return fmt.Sprintf("bucket(%d)", int(b))
	}
	return bucketNames[b]
}

// Stage is a position in a bucket's follow-up sequence.
type Stage int

const (
	StageInitial Stage = iota
	StageFollowUp1
	StageFollowUp2
	StageFollowUp3
	stageCount
)

func (s Stage) String() string {
	if s < StageInitial {
		return "none"
	}
	if s == StageInitial {
		return "initial"
	}
	return fmt.Sprintf("follow_up_%d", int(s))
}

// MoreDetailsResponse stands in for any stage a bucket does not define.
const MoreDetailsResponse = "I'm here to help. Could you please provide more details about your request?"

// templates is indexed by bucket then stage. An empty cell means the bucket
// has no template for that stage.
var templates = [bucketCount][stageCount]string{
	TransferMoney: {
		StageInitial:   "I can help you with your transfer request. Would you like to:\n1. Make a new transfer\n2. Check transfer status\n3. View recent transfers",
		StageFollowUp1: "To proceed with the transfer, please provide:\n1. Recipient's name\n2. Amount to transfer\n3. Purpose of transfer",
		StageFollowUp2: "Would you like to:\n1. Confirm the transfer details\n2. Check transfer fees\n3. Cancel this transfer",
		StageFollowUp3: "Is there anything else you'd like to know about transfers?",
	},
	CardIssues: {
		StageInitial:   "I can help with card-related issues. What would you like to do?\n1. Report a problem\n2. Check card status\n3. Get card information",
		StageFollowUp1: "Could you please specify the issue you're experiencing with your card?",
		StageFollowUp2: "Would you like me to:\n1. Guide you through troubleshooting\n2. Help you report the issue\n3. Explain card features",
	},
	ExchangeInfo: {
		StageInitial:   "I can help you with exchange rate information. What would you like to know?\n1. Current exchange rates\n2. Exchange fees\n3. Exchange limits",
		StageFollowUp1: "Would you like to:\n1. Get a quote for a specific amount\n2. Learn about our exchange services\n3. Check exchange history",
	},
	SecurityIssues: {
		StageInitial:   "I'll help you with security concerns. What would you like to do?\n1. Report suspicious activity\n2. Secure your account\n3. Update security settings",
		StageFollowUp1: "Would you like me to:\n1. Guide you through security steps\n2. Help you report an incident\n3. Explain security features",
	},
	GeneralInquiry: {
		StageInitial:   "How can I assist you today?\n1. Account information\n2. Services overview\n3. General support",
		StageFollowUp1: "Would you like more specific information about any of our services?",
	},
}

// Template returns the bucket's text for stage, or MoreDetailsResponse.
func (b Bucket) Template(s Stage) string {
	if b < 0 || b >= bucketCount || s < 0 || s >= stageCount {
		return MoreDetailsResponse
	}
	if t := templates[b][s]; t != "" {
		return t
	}
	return MoreDetailsResponse
}

// Membership lists, checked in this order. lost_or_stolen_card appears in
// both card and security lists; the card list wins.
var bucketMembers = []struct {
	bucket Bucket
	names  []string
}{
	{TransferMoney, []string{
		"transfer_timing", "transfer_not_received_by_recipient",
		"transfer_fee_charged", "transfer_into_account", "failed_transfer",
		"pending_transfer", "cancel_transfer", "declined_transfer",
	}},
	{CardIssues, []string{
		"card_arrival", "card_not_working", "lost_or_stolen_card",
		"card_about_to_expire", "card_swallowed", "card_payment_not_recognised",
	}},
	{ExchangeInfo, []string{
		"exchange_rate", "exchange_charge", "exchange_via_app",
		"card_payment_wrong_exchange_rate",
	}},
	{SecurityIssues, []string{
		"lost_or_stolen_phone", "lost_or_stolen_card",
		"compromised_card", "verify_identity",
	}},
}

var bucketIndex = func() map[string]Bucket {
	idx := make(map[string]Bucket)
	for _, group := range bucketMembers {
		for _, name := range group.names {
			if _, seen := idx[name]; !seen {
				idx[name] = group.bucket
			}
		}
	}
	return idx
}()

// BucketFor maps a fine-grained intent name to its bucket.
func BucketFor(intent string) Bucket {
	if b, ok := bucketIndex[intent]; ok {
		return b
	}
	return GeneralInquiry
}
