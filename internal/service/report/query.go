package report

// Every template ends with a "MetricValue" column; the first column is the
// chart label.

// Total payroll is spread over (employee, service) pairs by each pair's share
// of all assignments, so employees on the same service are charged in their
// assignment ratio.
const profitQuery = `
WITH revenue AS (
    SELECT i.dim_service_service_id AS service_id,
           SUM(COALESCE(i.total_amount, 0)) AS amount
    FROM fact_invoice i
    GROUP BY i.dim_service_service_id
),
payroll AS (
    SELECT COALESCE(SUM(COALESCE(p.base_salary, 0) + COALESCE(p.over_time_pay, 0) - COALESCE(p.deductions, 0)), 0) AS cost
    FROM fact_payroll p
),
assignments AS (
    SELECT a.dim_employee_employee_id AS employee_id,
           a.dim_service_service_id AS service_id,
           COUNT(*) AS n
    FROM fact_service_assignment a
    GROUP BY a.dim_employee_employee_id, a.dim_service_service_id
),
shares AS (
    SELECT employee_id, service_id,
           n::numeric / SUM(n) OVER () AS share
    FROM assignments
),
allocated AS (
    SELECT s.service_id, SUM(s.share * pr.cost) AS cost
    FROM shares s
    CROSS JOIN payroll pr
    GROUP BY s.service_id
)
SELECT d.service_name AS "ServiceName",
       COALESCE(r.amount, 0) AS "Revenue",
       ROUND(COALESCE(al.cost, 0), 2) AS "AllocatedPayroll",
       ROUND(COALESCE(r.amount, 0) - COALESCE(al.cost, 0), 2) AS "MetricValue"
FROM dim_service d
LEFT JOIN revenue r ON r.service_id = d.service_id
LEFT JOIN allocated al ON al.service_id = d.service_id
ORDER BY "MetricValue" DESC, "ServiceName" ASC`

const staffingQuery = `
WITH demand AS (
    SELECT date_trunc('month', a.scheduled_date)::date AS period,
           a.dim_service_service_id AS service_id,
           COUNT(*) AS demand
    FROM fact_service_assignment a
    WHERE a.scheduled_date IS NOT NULL
    GROUP BY 1, 2
),
capacity AS (
    SELECT date_trunc('month', sh.start_time)::date AS period,
           COUNT(*) * 8 AS hours
    FROM fact_shifts sh
    WHERE sh.start_time IS NOT NULL
    GROUP BY 1
)
SELECT to_char(COALESCE(d.period, c.period), 'YYYY-MM') AS "Period",
       to_char(COALESCE(d.period, c.period), 'Mon YYYY') AS "Month",
       COALESCE(ds.service_name, 'No demand') AS "ServiceName",
       COALESCE(d.demand, 0) AS "Demand",
       COALESCE(c.hours, 0) AS "CapacityHours",
       CASE
           WHEN COALESCE(d.demand, 0) = 0 OR COALESCE(c.hours, 0) = 0 THEN NULL
           ELSE ROUND(d.demand::numeric / c.hours, 4)
       END AS "MetricValue"
FROM demand d
FULL OUTER JOIN capacity c ON c.period = d.period
LEFT JOIN dim_service ds ON ds.service_id = d.service_id
ORDER BY "Period" ASC, "ServiceName" ASC`

const damagesQuery = `
SELECT a.asset_type AS "AssetType",
       COALESCE(a.location, '') AS "Location",
       COUNT(r.report_id) AS "ReportCount",
       SUM(r.repair_cost) AS "MetricValue"
FROM fact_damage_report r
JOIN dim_asset a ON a.asset_id = r.dim_asset_asset_id
GROUP BY a.asset_type, a.location
ORDER BY "MetricValue" DESC, "ReportCount" DESC`

const collectionRateQuery = `
WITH monthly AS (
    SELECT to_char(date_trunc('month', i.invoice_date), 'YYYY-MM') AS month,
           SUM(COALESCE(i.total_amount, 0)) AS invoiced,
           SUM(CASE WHEN i.is_paid THEN COALESCE(i.total_amount, 0) ELSE 0 END) AS paid
    FROM fact_invoice i
    WHERE i.invoice_date IS NOT NULL
    GROUP BY 1
)
SELECT month AS "Month",
       invoiced AS "InvoicedAmount",
       paid AS "PaidAmount",
       CASE WHEN invoiced = 0 THEN 0 ELSE ROUND(paid * 100 / invoiced, 2) END AS "MetricValue"
FROM monthly
ORDER BY month ASC`

var queries = map[Metric]string{
	Profit:         profitQuery,
	Staffing:       staffingQuery,
	Damages:        damagesQuery,
	CollectionRate: collectionRateQuery,
}

// BuildQuery returns the SQL for metric. Unknown or empty names get the
// profit query.
func BuildQuery(metric string) string {
	m, _ := ParseMetric(metric)
	return queries[m]
}
