// Package export renders the ledger history and staking plans as
// downloadable text reports. Reports are generated on demand and never
// persisted; dates use pt-BR formatting to match the exported headers.
package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MRsRIQUE/GERENCIADORBACBO/internal/model"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04:05"
)

// HistoryReport renders the bet history as CSV: one row per bet in
// chronological order under the fixed Portuguese header, followed by a
// session summary block.
func HistoryReport(s *model.LedgerState, stats model.Stats) string {
	var b strings.Builder

	b.WriteString("REI DO BACBO - HISTÓRICO DE APOSTAS\n\n")
	b.WriteString("Data,Hora,Tipo,Valor,Resultado,Multiplicador,Lucro/Prejuízo,Saldo\n")

	// Stored newest first; export oldest first.
	for i := len(s.Bets) - 1; i >= 0; i-- {
		bet := s.Bets[i]
		mult := "-"
		if bet.Multiplier != nil {
			mult = bet.Multiplier.String()
		}
		fmt.Fprintf(&b, "%s,%s,%s,R$ %s,%s,%s,R$ %s,R$ %s\n",
			bet.Timestamp.Format(dateLayout),
			bet.Timestamp.Format(timeLayout),
			bet.Type,
			bet.Amount.StringFixed(2),
			bet.Result,
			mult,
			bet.Profit.StringFixed(2),
			bet.Balance.StringFixed(2),
		)
	}

	b.WriteString("\nRESUMO\n")
	fmt.Fprintf(&b, "Banca Inicial,R$ %s\n", s.InitialBalance.StringFixed(2))
	fmt.Fprintf(&b, "Banca Atual,R$ %s\n", s.Balance.StringFixed(2))
	fmt.Fprintf(&b, "Lucro/Prejuízo,R$ %s\n", stats.TotalProfit.StringFixed(2))
	fmt.Fprintf(&b, "ROI,%s%%\n", stats.ROI.StringFixed(1))
	fmt.Fprintf(&b, "Win Rate,%s%%\n", stats.WinRate.StringFixed(1))
	fmt.Fprintf(&b, "Tempo de Sessão,%s\n", stats.SessionTime)
	fmt.Fprintf(&b, "Total de Apostas,%d\n", stats.TotalBets)

	return b.String()
}

// PlanReport renders the 30-day plan: configuration, financial summary,
// chip-rounded entry recommendations, and the daily table with projected
// calendar dates (day 1 = tomorrow relative to generation time).
func PlanReport(p *model.Plan) string {
	var b strings.Builder

	b.WriteString("REI DO BACBO - PLANO DE GESTÃO 30 DIAS\n")
	fmt.Fprintf(&b, "Gerado em: %s às %s\n\n",
		p.GeneratedAt.Format(dateLayout), p.GeneratedAt.Format(timeLayout))

	b.WriteString("CONFIGURAÇÃO DO PLANO\n")
	progression := "Fixa (R$)"
	unit := " R$"
	if p.ProgressionType == model.ProgressionPercentage {
		progression = "Percentual (%)"
		unit = "%"
	}
	fmt.Fprintf(&b, "Tipo de Progressão,%s\n", progression)
	fmt.Fprintf(&b, "Valor Base Inicial,R$ %s\n", planAmount(p, p.Days[0].Amount))
	fmt.Fprintf(&b, "Incremento,%s%s\n", p.ProgressionValue.String(), unit)
	rounded := "Não"
	if p.Rounded {
		rounded = "Sim"
	}
	fmt.Fprintf(&b, "Valores Arredondados,%s\n\n", rounded)

	first := p.Days[0].Amount
	last := p.Days[len(p.Days)-1].Amount

	b.WriteString("RESUMO FINANCEIRO\n")
	fmt.Fprintf(&b, "Valor Inicial (Dia 1),R$ %s\n", planAmount(p, first))
	fmt.Fprintf(&b, "Valor Final (Dia 30),R$ %s\n", planAmount(p, last))
	fmt.Fprintf(&b, "Crescimento Projetado,R$ %s\n", planAmount(p, p.TotalProfit))
	// Rounding can record day 1 as 0; percentages against it are 0, not a panic.
	roi := decimal.Zero
	if !first.IsZero() {
		roi = p.TotalProfit.Div(first).Mul(decimal.NewFromInt(100))
	}
	fmt.Fprintf(&b, "ROI Projetado,%s%%\n\n", roi.StringFixed(1))

	b.WriteString("RECOMENDAÇÃO DE ENTRADAS (5% da Banca)\n")
	fmt.Fprintf(&b, "Entrada Principal (Player/Banker),R$ %s\n", p.Recommendation.MainEntry.String())
	if p.Recommendation.TieEntry.IsPositive() {
		fmt.Fprintf(&b, "Entrada Empate (TIE),R$ %s\n", p.Recommendation.TieEntry.String())
		total := p.Recommendation.MainEntry.Add(p.Recommendation.TieEntry)
		fmt.Fprintf(&b, "Total por Rodada,R$ %s\n\n", total.String())
	} else {
		b.WriteString("Entrada Empate (TIE),NÃO RECOMENDADO (entrada ≤ R$ 15)\n")
		fmt.Fprintf(&b, "Total por Rodada,R$ %s\n\n", p.Recommendation.MainEntry.String())
	}

	b.WriteString("PROGRESSÃO DIÁRIA - 30 DIAS\n")
	b.WriteString("Dia,Data,Valor Base,Crescimento,% Inicial\n")
	for _, entry := range p.Days {
		date := p.GeneratedAt.AddDate(0, 0, entry.Day)
		growth := entry.Amount.Sub(first)
		pct := decimal.Zero
		if !first.IsZero() {
			pct = growth.Div(first).Mul(decimal.NewFromInt(100))
		}
		fmt.Fprintf(&b, "%d,%s,R$ %s,R$ %s,%s%%\n",
			entry.Day,
			date.Format(dateLayout),
			planAmount(p, entry.Amount),
			planAmount(p, growth),
			pct.StringFixed(1),
		)
	}

	b.WriteString("\nINSTRUÇÕES DE USO\n")
	b.WriteString("Siga o valor base de cada dia\n")
	fmt.Fprintf(&b, "Aposte R$ %s no Player/Banker\n", p.Recommendation.MainEntry.String())
	if p.Recommendation.TieEntry.IsPositive() {
		fmt.Fprintf(&b, "Aposte R$ %s no Empate\n", p.Recommendation.TieEntry.String())
	} else {
		b.WriteString("NÃO aposte no Empate (entrada baixa)\n")
	}
	b.WriteString("Respeite o Stop Loss/Gain\n")

	return b.String()
}

// planAmount renders an amount the way the plan was generated: bare
// integers when rounded, two decimal places otherwise.
func planAmount(p *model.Plan, v decimal.Decimal) string {
	if p.Rounded {
		return v.StringFixed(0)
	}
	return v.StringFixed(2)
}
