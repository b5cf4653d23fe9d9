/*
Package ofx reads and writes OFX bank statement files.

It accepts OFX 1.x SGML documents, which omit the closing tags of elements, as
well as OFX 2.x XML documents. The SGML body is cleaned into well formed XML
before being decoded, and written back as XML behind the original header so
that the rewritten file keeps the version, encoding and charset it was read with.

Only the bank statement aggregates are modelled. Any other element is carried
through as a generic Element.
*/
package ofx
