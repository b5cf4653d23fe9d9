package ofx

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strconv"
	"time"

	"github.com/golang/glog"
)

//revive:disable:exported

var txnPattern = regexp.MustCompile(`<STMTTRN>`)

// TransactionType is a transaction type as per the OFX Spec 2.2 Section 11.4.4.3
// https://www.ofx.net/downloads/OFX%202.2.pdf
type TransactionType string

const (
	// Common Transaction Types
	DEBIT  TransactionType = "DEBIT"
	CREDIT TransactionType = "CREDIT"
	// Uncommon Transaction Types
	INTEREST      TransactionType = "INT"
	DIVIDEND      TransactionType = "DIV"
	FEE           TransactionType = "FEE"
	SERVICECHARGE TransactionType = "SRVCHG"
	DEPOSIT       TransactionType = "DEP"
	ATM           TransactionType = "ATM"
	POS           TransactionType = "POS"
	TRANSFER      TransactionType = "XFER"
	CHECK         TransactionType = "CHECK"
	PAYMENT       TransactionType = "PAYMENT"
	CASH          TransactionType = "CASH"
	DIRECTDEPOSIT TransactionType = "DIRECTDEP"
	DIRECTDEBIT   TransactionType = "DIRECTDEBIT"
	REPEATPAYMENT TransactionType = "REPEATPMT"
	HOLD          TransactionType = "HOLD"
	OTHER         TransactionType = "OTHER"
)

var transactionTypes = map[TransactionType]struct{}{
	DEBIT: {}, CREDIT: {}, INTEREST: {}, DIVIDEND: {}, FEE: {}, SERVICECHARGE: {},
	DEPOSIT: {}, ATM: {}, POS: {}, TRANSFER: {}, CHECK: {}, PAYMENT: {}, CASH: {},
	DIRECTDEPOSIT: {}, DIRECTDEBIT: {}, REPEATPAYMENT: {}, HOLD: {}, OTHER: {},
}

// Valid returns true if t is one of the transaction types defined by the OFX spec.
func (t TransactionType) Valid() bool {
	_, found := transactionTypes[t]
	return found
}

// Element is an element the model does not know about. It is kept so that
// it can be written back unchanged.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Value    string     `xml:",chardata"`
	Children []Element  `xml:",any"`
}

// Transaction is a single STMTTRN aggregate. Fields are in the order the OFX
// DTD gives them, which is the order they are written in.
type Transaction struct {
	Type          TransactionType `xml:"TRNTYPE"`
	Posted        string          `xml:"DTPOSTED"`
	UserDate      string          `xml:"DTUSER,omitempty"`
	AvailDate     string          `xml:"DTAVAIL,omitempty"`
	Amount        Amount          `xml:"TRNAMT"`
	ID            string          `xml:"FITID"`
	CorrectID     string          `xml:"CORRECTFITID,omitempty"`
	CorrectAction string          `xml:"CORRECTACTION,omitempty"`
	ServerID      string          `xml:"SRVRTID,omitempty"`
	CheckNumber   string          `xml:"CHECKNUM,omitempty"`
	RefNumber     string          `xml:"REFNUM,omitempty"`
	SIC           string          `xml:"SIC,omitempty"`
	PayeeID       string          `xml:"PAYEEID,omitempty"`
	Name          string          `xml:"NAME,omitempty"`
	Payee         *Element        `xml:"PAYEE,omitempty"`
	ExtendedName  string          `xml:"EXTDNAME,omitempty"`
	AccountTo     *BankAccount    `xml:"BANKACCTTO,omitempty"`
	CardAccountTo *Element        `xml:"CCACCTTO,omitempty"`
	Memo          string          `xml:"MEMO,omitempty"`
	Currency      *Currency       `xml:"CURRENCY,omitempty"`
	OrigCurrency  *Currency       `xml:"ORIGCURRENCY,omitempty"`
	Extra         []Element       `xml:",any"`
}

// Currency is a CURRENCY or ORIGCURRENCY aggregate. The rate is kept as written.
type Currency struct {
	Rate   string `xml:"CURRATE"`
	Symbol string `xml:"CURSYM"`
}

type Status struct {
	Code     int    `xml:"CODE"`
	Severity string `xml:"SEVERITY"`
	Message  string `xml:"MESSAGE,omitempty"`
}

type FinancialInstitution struct {
	Organization   string `xml:"ORG"`
	OrganizationID string `xml:"FID,omitempty"`
}

type SignOnMessageSet struct {
	Response SignOnResponse `xml:"SONRS"`
	Extra    []Element      `xml:",any"`
}

type SignOnResponse struct {
	Status      Status                `xml:"STATUS"`
	Date        string                `xml:"DTSERVER"`
	Language    string                `xml:"LANGUAGE"`
	ProfileDate string                `xml:"DTPROFUP,omitempty"`
	AccountDate string                `xml:"DTACCTUP,omitempty"`
	FI          *FinancialInstitution `xml:"FI,omitempty"`
	IntuitID    string                `xml:"INTU.BID,omitempty"`
	Extra       []Element             `xml:",any"`
}

type BankAccount struct {
	BankID   string `xml:"BANKID"`
	BranchID string `xml:"BRANCHID,omitempty"`
	ID       string `xml:"ACCTID"`
	Type     string `xml:"ACCTTYPE"`
	Key      string `xml:"ACCTKEY,omitempty"`
}

type StatementTransactionResponseSet struct {
	ID     string               `xml:"TRNUID"`
	Status Status               `xml:"STATUS"`
	RS     StatementResponseSet `xml:"STMTRS"`
	Extra  []Element            `xml:",any"`
}

type Balance struct {
	Amount Amount `xml:"BALAMT"`
	Date   string `xml:"DTASOF"`
}

// StatementResponseSet is a single bank statement, with its transactions in document order.
type StatementResponseSet struct {
	Currency         string              `xml:"CURDEF"`
	Account          BankAccount         `xml:"BANKACCTFROM"`
	TransactionList  BankTransactionList `xml:"BANKTRANLIST"`
	LedgerBalance    Balance             `xml:"LEDGERBAL"`
	AvailableBalance *Balance            `xml:"AVAILBAL,omitempty"`
	Extra            []Element           `xml:",any"`
}

// BankTransactionList is the BANKTRANLIST aggregate of a statement.
type BankTransactionList struct {
	StartDate    string        `xml:"DTSTART"`
	EndDate      string        `xml:"DTEND"`
	Transactions []Transaction `xml:"STMTTRN"`
	Extra        []Element     `xml:",any"`
}

type BankResponseMessageSet struct {
	Statements []StatementTransactionResponseSet `xml:"STMTTRNRS"`
	Extra      []Element                         `xml:",any"`
}

// Document is a parsed OFX/QFX Statement.
// This does not implement the complete rfc spec yet.
type Document struct {
	XMLName          xml.Name                 `xml:"OFX"`
	Header           Header                   `xml:"-"`
	SignOn           SignOnMessageSet         `xml:"SIGNONMSGSRSV1"`
	BRMS             []BankResponseMessageSet `xml:"BANKMSGSRSV1"`
	Extra            []Element                `xml:",any"`
	TransactionCount int                      `xml:"-"`
}

// Parse parses an OFX file using the default cleaner.
func Parse(reader io.Reader) (*Document, error) {
	return NewDocumentFromXML(reader, GetCleaner())
}

// NewDocumentFromXML parses the given file into a Document.
func NewDocumentFromXML(reader io.Reader, cleaner Cleaner) (*Document, error) {
	var (
		document = &Document{} // The parsed document.
		data     []byte        // Buffer to parse raw bytes from the input file.
		err      error
	)

	// Parse raw byte from the source file into data.
	if data, err = io.ReadAll(reader); err != nil {
		return nil, err
	}
	header, body, err := splitHeader(data)
	if err != nil {
		return nil, err
	}
	if body, err = decodeBody(&header, body); err != nil {
		return nil, err
	}
	body = preprocessOFXData(body)
	cleanXML, err := cleaner.CleanupXML(body)
	if err != nil {
		return nil, err
	}

	glog.V(3).Infof("cleanXML: %s", cleanXML.String())
	if err = xml.Unmarshal(cleanXML.Bytes(), document); err != nil {
		return nil, err
	}
	document.Header = header

	matches := txnPattern.FindAllIndex(cleanXML.Bytes(), -1)
	if matches != nil {
		document.TransactionCount = len(matches)
	}
	return document, nil
}

// Statements returns every bank statement of the document, in document order.
// The returned statements point into the document and may be modified in place.
func (d *Document) Statements() []*StatementResponseSet {
	stmts := make([]*StatementResponseSet, 0)
	for i := range d.BRMS {
		for j := range d.BRMS[i].Statements {
			stmts = append(stmts, &d.BRMS[i].Statements[j].RS)
		}
	}
	return stmts
}

var datePattern = regexp.MustCompile(`^(?P<date>\d{8})(?P<time>\d{6})?(?:\.\d{3})?(?:\[(?P<offset>[-+]?\d+(?:\.\d+)?)(?::(?P<tz>[^\]]+))?\])?`)

// ParseDate parses the given OFX formatted date string to a time.Time object.
// Dates without a time zone are read in loc, or UTC when loc is nil.
func ParseDate(d string, loc *time.Location) (*time.Time, error) {
	parts := datePattern.FindStringSubmatch(d)
	if len(parts) == 0 {
		return nil, errors.New("error - date string can not be parsed")
	}
	if loc == nil {
		loc = time.UTC
	}
	if parts[3] != "" {
		hours, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return nil, err
		}
		name := parts[4]
		if name == "" {
			name = parts[3]
		}
		loc = time.FixedZone(name, int(hours*3600))
	}
	value, format := parts[1], "20060102"
	if parts[2] != "" {
		value, format = value+parts[2], "20060102150405"
	}
	glog.V(3).Infof("parts:%q format:%s", parts, format)
	t, err := time.ParseInLocation(format, value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
