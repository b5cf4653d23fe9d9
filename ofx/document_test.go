package ofx_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/rockstardevs/bpfix/ofx"
)

type FakeReader struct {
	err error
}

func (f FakeReader) Read(p []byte) (int, error) {
	return 0, f.err
}

type FakeCleaner struct {
	err  error
	data string
}

func (f FakeCleaner) CleanupXML(data []byte) (*bytes.Buffer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return bytes.NewBufferString(f.data), nil
}

var _ = Describe("ofx", func() {
	Describe("ParseDate()", func() {
		Context("when given a valid date string", func() {
			DescribeTable("should parse to a time.", func(input, expected string, loc *time.Location) {
				e, err := time.Parse(time.RFC822Z, expected)
				Expect(err).To(Succeed())
				got, err := ofx.ParseDate(input, loc)
				Expect(err).To(Succeed())
				Expect(*got).To(BeTemporally("==", e))
			},
				Entry("YYYYMMDD", "20191001", "01 Oct 19 00:00 +0000", nil),
				Entry("YYYYMMDD in a location", "20191001", "01 Oct 19 00:00 -1100", time.FixedZone("TTT", -11*60*60)),
				Entry("YYYYMMDDHHMMSS", "20171108090000", "08 Nov 17 09:00 +0000", nil),
				Entry("YYYYMMDDHHMMSS in a location", "20171108090000", "08 Nov 17 09:00 +1000", time.FixedZone("TTT", 10*60*60)),
				Entry("YYYYMMDDHHMMSS.XXX[gmt offset:tz name]", "20170226120000.000[0:GMT]", "26 Feb 17 12:00 +0000", nil),
				Entry("YYYYMMDDHHMMSS.XXX[negative offset:tz name]", "20180313093000.000[-10:EDT]", "13 Mar 18 09:30 -1000", nil),
				Entry("YYYYMMDDHHMMSS[offset]", "20230320120000[+1]", "20 Mar 23 12:00 +0100", nil),
			)
		})
		Context("when given a invalid date string", func() {
			DescribeTable("should return an error.", func(input string) {
				got, err := ofx.ParseDate(input, nil)
				Expect(got).To(BeNil())
				Expect(err).To(MatchError("error - date string can not be parsed"))
			},
				Entry("Empty", ""),
				Entry("Invalid text", "test"),
				Entry("Invalid format", "2019/01/02"),
				Entry("Missing month and date", "2019"),
				Entry("Missing date", "2019-01"),
			)
		})
	})
	Describe("TransactionType", func() {
		DescribeTable("Valid()", func(t ofx.TransactionType, expected bool) {
			Expect(t.Valid()).To(Equal(expected))
		},
			Entry("DEBIT", ofx.DEBIT, true),
			Entry("SRVCHG", ofx.SERVICECHARGE, true),
			Entry("REPEATPMT", ofx.REPEATPAYMENT, true),
			Entry("a bank marker", ofx.TransactionType("COTIS"), false),
			Entry("empty", ofx.TransactionType(""), false),
		)
	})
	Describe("NewDocumentFromXML()", func() {
		Context("when given invalid file", func() {
			It("should return an error", func() {
				r := FakeReader{err: errors.New("fake reader test error")}
				d, err := ofx.NewDocumentFromXML(&r, ofx.GetCleaner())
				Expect(err).To(MatchError("fake reader test error"))
				Expect(d).To(BeNil())
			})
		})
		Context("when given invalid XML", func() {
			It("should return an error", func() {
				r := strings.NewReader("<OFX></OFX>")
				d, err := ofx.NewDocumentFromXML(r, &FakeCleaner{data: "<OFX>"})
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("unexpected EOF"))
				Expect(d).To(BeNil())
			})
		})
		Context("when given invalid OFX data missing OFX tag", func() {
			It("should return an error", func() {
				r := strings.NewReader("<BANKMSGSRSV1></BANKMSGSRSV1>")
				d, err := ofx.NewDocumentFromXML(r, ofx.GetCleaner())
				Expect(err).To(MatchError("error - invalid file, OFX tag not found"))
				Expect(d).To(BeNil())
			})
		})
		Context("when given data that can not be cleaned", func() {
			It("should return an error", func() {
				r := strings.NewReader("<OFX>")
				d, err := ofx.NewDocumentFromXML(r, &FakeCleaner{err: errors.New("test error - failed to clean data")})
				Expect(err).To(MatchError("test error - failed to clean data"))
				Expect(d).To(BeNil())
			})
		})
		Context("when given an amount that is not a number", func() {
			It("should return an error", func() {
				r := strings.NewReader("<OFX><BANKMSGSRSV1><STMTTRNRS><STMTRS><BANKTRANLIST><STMTTRN><TRNAMT>abc</STMTTRN></OFX>")
				d, err := ofx.NewDocumentFromXML(r, ofx.GetCleaner())
				Expect(err).To(HaveOccurred())
				Expect(d).To(BeNil())
			})
		})
		Context("when given valid OFX data", func() {
			It("should return an initialized document", func() {
				r := strings.NewReader("<OFX></OFX>")
				d, err := ofx.NewDocumentFromXML(r, ofx.GetCleaner())
				Expect(err).To(BeNil())
				Expect(d).NotTo(BeNil())
			})
			It("should set txn count", func() {
				r := strings.NewReader("<OFX><STMTTRN><FITID>1</STMTTRN><STMTTRN>2</FITID></STMTTRN></OFX>")
				d, err := ofx.NewDocumentFromXML(r, ofx.GetCleaner())
				Expect(err).To(BeNil())
				Expect(d).NotTo(BeNil())
				Expect(d.TransactionCount).To(Equal(2))
			})
		})
		Context("when given a Banque Populaire SGML export", func() {
			var d *ofx.Document
			BeforeEach(func() {
				f, err := os.Open("../testdata/bp_statement.ofx")
				Expect(err).To(BeNil())
				defer f.Close()
				d, err = ofx.Parse(f)
				Expect(err).To(BeNil())
			})
			It("should parse the header", func() {
				Expect(d.Header.IsXML()).To(BeFalse())
				Expect(d.Header.Version()).To(Equal("102"))
				Expect(d.Header.Get("charset")).To(Equal("1252"))
				Expect(string(d.Header.Raw)).To(HavePrefix("OFXHEADER:100\r\n"))
			})
			It("should parse the sign on response", func() {
				Expect(d.SignOn.Response.Status.Code).To(Equal(0))
				Expect(d.SignOn.Response.Status.Severity).To(Equal("INFO"))
				Expect(d.SignOn.Response.Language).To(Equal("FRA"))
			})
			It("should parse the statement", func() {
				stmts := d.Statements()
				Expect(stmts).To(HaveLen(1))
				Expect(stmts[0].Currency).To(Equal("EUR"))
				Expect(stmts[0].Account.ID).To(Equal("12345678901"))
				Expect(stmts[0].Account.BranchID).To(Equal("00001"))
				Expect(stmts[0].TransactionList.StartDate).To(Equal("20230301"))
				Expect(stmts[0].LedgerBalance.Amount.String()).To(Equal("1523,45"))
				Expect(stmts[0].AvailableBalance).NotTo(BeNil())
				Expect(stmts[0].TransactionList.Transactions).To(HaveLen(11))
				Expect(d.TransactionCount).To(Equal(11))
			})
			It("should parse the transactions", func() {
				txns := d.Statements()[0].TransactionList.Transactions
				Expect(txns[1].Type).To(Equal(ofx.DEBIT))
				Expect(txns[1].Name).To(Equal("150323 CB*123456789 BOULANGERIE"))
				Expect(txns[1].Memo).To(Equal("BOULANGERIE PARIS 12EME"))
				Expect(txns[1].CheckNumber).To(Equal("4567"))
				Expect(txns[1].ID).To(Equal("2023031500002"))
				Expect(txns[1].Amount.Value.Equal(decimal.RequireFromString("-4.20"))).To(BeTrue())
			})
			It("should decode the windows-1252 charset", func() {
				Expect(d.Statements()[0].TransactionList.Transactions[8].Name).To(Equal("PRLV SEPA SOCIÉTÉ GÉNÉRALE"))
			})
			It("should keep bare ampersands", func() {
				Expect(d.Statements()[0].TransactionList.Transactions[10].Name).To(Equal("M&S REMBOURSEMENT"))
			})
		})
		Context("when given a statement with marketing text", func() {
			DescribeTable("should keep the text", func(raw string) {
				d, err := ofx.Parse(strings.NewReader(raw))
				Expect(err).To(BeNil())
				extra := d.Statements()[0].Extra
				Expect(extra).To(HaveLen(1))
				Expect(extra[0].XMLName.Local).To(Equal("MKTGINFO"))
				Expect(extra[0].Value).To(Equal("OFFRE PRINTEMPS"))
			},
				Entry("SGML", "<OFX><BANKMSGSRSV1><STMTTRNRS><STMTRS><CURDEF>EUR<MKTGINFO>OFFRE PRINTEMPS</STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>"),
				Entry("XML", "<OFX><BANKMSGSRSV1><STMTTRNRS><STMTRS><CURDEF>EUR</CURDEF><MKTGINFO>OFFRE PRINTEMPS</MKTGINFO></STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>"),
			)
		})
		Context("when given a transaction with optional aggregates", func() {
			It("should read them into the transaction", func() {
				raw := "<OFX><BANKMSGSRSV1><STMTTRNRS><STMTRS><BANKTRANLIST><STMTTRN><TRNTYPE>DEBIT<TRNAMT>-1,00<FITID>2" +
					"<CORRECTFITID>1<CORRECTACTION>REPLACE<NAME>VIR M DUPONT<BANKACCTTO><BANKID>10207<ACCTID>42<ACCTTYPE>SAVINGS</BANKACCTTO>" +
					"<MEMO>LOYER<CURRENCY><CURRATE>1.0<CURSYM>USD</CURRENCY></STMTTRN></BANKTRANLIST></STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>"
				d, err := ofx.Parse(strings.NewReader(raw))
				Expect(err).To(BeNil())
				txn := d.Statements()[0].TransactionList.Transactions[0]
				Expect(txn.CorrectID).To(Equal("1"))
				Expect(txn.CorrectAction).To(Equal("REPLACE"))
				Expect(txn.AccountTo).To(Equal(&ofx.BankAccount{BankID: "10207", ID: "42", Type: "SAVINGS"}))
				Expect(txn.Currency).To(Equal(&ofx.Currency{Rate: "1.0", Symbol: "USD"}))
				Expect(txn.Extra).To(BeEmpty())
			})
		})
		Context("when given an XML export with several statements", func() {
			It("should return the statements in document order", func() {
				f, err := os.Open("../testdata/two_statements.ofx")
				Expect(err).To(BeNil())
				defer f.Close()
				d, err := ofx.Parse(f)
				Expect(err).To(BeNil())
				Expect(d.Header.IsXML()).To(BeTrue())
				Expect(d.Header.Version()).To(Equal("211"))
				stmts := d.Statements()
				Expect(stmts).To(HaveLen(2))
				Expect(stmts[0].Account.ID).To(Equal("111"))
				Expect(stmts[1].Account.ID).To(Equal("222"))
				Expect(stmts[0].TransactionList.Transactions[0].Name).To(Equal("VIREMENT CAISSE DÉPARGNE"))
			})
		})
	})
	Describe("Document", func() {
		Describe("Statements()", func() {
			It("should return statements that can be modified in place", func() {
				d := &ofx.Document{
					BRMS: []ofx.BankResponseMessageSet{{
						Statements: []ofx.StatementTransactionResponseSet{
							{RS: ofx.StatementResponseSet{TransactionList: ofx.BankTransactionList{Transactions: []ofx.Transaction{{Name: "A"}}}}},
						},
					}},
				}
				d.Statements()[0].TransactionList.Transactions[0].Name = "B"
				Expect(d.BRMS[0].Statements[0].RS.TransactionList.Transactions[0].Name).To(Equal("B"))
			})
		})
	})
})
