package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const sampleDir = "sample"

// sampleRows is a small Payson export with one malformed amount (row 4) and
// one refund, enough to exercise every status line.
var sampleRows = []string{
	"Transaction ID;Date;Type;Status;Gross;Fee;Net;Currency;Name;Email;Description;Order Reference",
	"5001;2024-03-01 09:12:44;Betalning;Genomförd;1 250,00;-31,25;1 218,75;SEK;Åsa Öberg;asa@example.se;Medlemsavgift 2024;M-2024-17",
	"5002;2024-03-01 10:40:02;Betalning;Genomförd;349,00;-8,73;340,27;SEK;Per Ängström;per@example.se;Kursavgift vår;K-88",
	"5003;2024-03-02 16:05:51;Återbetalning;Genomförd;-349,00;0,00;-349,00;SEK;Per Ängström;per@example.se;Återbetalning kursavgift;K-88",
	"5004;2024-03-03 08:00:00;Betalning;Genomförd;12,5O;-0,31;12,19;SEK;Bo Ek;;Gåva;",
	"5005;2024-03-04 12:30:00;Betalning;Väntande;2 000,00;-50,00;1 950,00;EUR;Café Åland AB;info@example.fi;Faktura 2024-031;F-31",
}

// writeSampleReport writes sampleRows ISO-8859-1 encoded, as Payson does.
func writeSampleReport(path string) error {
	text := strings.Join(sampleRows, "\r\n") + "\r\n"
	data, err := charmap.ISO8859_1.NewEncoder().String(text)
	if err != nil {
		return fmt.Errorf("encoding sample report: %w", err)
	}
	return os.WriteFile(path, []byte(data), 0o644)
}
