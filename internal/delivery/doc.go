// Package delivery emails the finished report.
//
// Mailer.Send checks the delivery settings and the artifact, builds a
// go-mail message with the workbook attached and hands it to a Transport.
// The default SMTPTransport always encrypts: implicit TLS on port 465,
// mandatory STARTTLS on any other port, so credentials never cross an
// unencrypted link.
//
// Delivery failures are reported as errors.ErrTypeDelivery. They never
// modify or remove the report file.
package delivery
