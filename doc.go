/*
Package bpfix rewrites the transactions of OFX files exported by Banque Populaire
so that personal finance software imports them with the right types and names.

The bank puts its own transaction type in front of the transaction name
("VIR", "PRLV SEPA", "RET DAB", ...), stores card payments as
"<date> CB*<card> <merchant>" and uses CHECKNUM for loan and transfer
references. Fixer applies an ordered list of Rules to every transaction of every
statement to move this information to the OFX fields it belongs in.
*/
package bpfix
