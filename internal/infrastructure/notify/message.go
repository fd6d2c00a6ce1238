package notify

import (
	"fmt"
	"strings"

	"cotizaciones/internal/domain/entities"
)

// RenderText renders the plain-text body shared by the mail and chat transports.
func RenderText(n entities.Notification) string {
	p := n.Payload
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", n.Subject)
	fmt.Fprintf(&b, "Número: %s\n", p.Numero)
	fmt.Fprintf(&b, "Cliente: %s\n", p.Cliente)
	if p.Tarifa != "" {
		fmt.Fprintf(&b, "Tarifa: %s\n", p.Tarifa)
	}
	fmt.Fprintf(&b, "Vendedor: %s\n", p.Vendedor)
	fmt.Fprintf(&b, "Estado: %s", p.Estado)
	if p.Workflow != "" {
		fmt.Fprintf(&b, " (%s)", p.Workflow)
	}
	b.WriteString("\n")
	if !p.StockDisponible {
		b.WriteString("Sin stock disponible\n")
	}
	if p.Licitacion {
		fmt.Fprintf(&b, "Licitación para: %s\n", p.ClienteFinal)
	}

	if len(p.Articulos) > 0 {
		b.WriteString("\nArtículos:\n")
		for _, li := range p.Articulos {
			fmt.Fprintf(&b, "  - %d x %s", li.Unidades, li.Articulo)
			if li.PrecioCotizado != nil {
				fmt.Fprintf(&b, " @ %s", li.PrecioCotizado.StringFixed(2))
			} else if li.PrecioSolicitado != nil {
				fmt.Fprintf(&b, " @ %s", li.PrecioSolicitado.StringFixed(2))
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", p.TotalCotizado.StringFixed(2))

	if p.Comentario != "" {
		fmt.Fprintf(&b, "\nComentario:\n%s\n", p.Comentario)
	}
	return b.String()
}
