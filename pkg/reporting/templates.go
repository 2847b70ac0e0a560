/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML templates for the Akaylee RuleMiner report. Provides a clean,
modern, and responsive report page with structure-inference results: text regions,
gap classes, pointer chains, recovered strings, and correlated rule records.
*/

package reporting

// reportTemplate is the main HTML template for the analysis report
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - Akaylee RuleMiner Report</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            color: #333;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        .header {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 20px;
            padding: 30px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
            text-align: center;
        }

        .header h1 {
            color: #4a5568;
            font-size: 2.2rem;
            margin-bottom: 10px;
            font-weight: 700;
        }

        .header p {
            color: #718096;
            font-size: 1.05rem;
        }

        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }

        .stat-card {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 25px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .stat-card h3 {
            color: #4a5568;
            font-size: 1.1rem;
            margin-bottom: 12px;
        }

        .stat-card .value {
            font-size: 2.2rem;
            font-weight: 700;
            color: #2d3748;
            margin-bottom: 5px;
        }

        .stat-card .label {
            color: #718096;
            font-size: 0.85rem;
            text-transform: uppercase;
            letter-spacing: 0.5px;
        }

        .section {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 15px;
            padding: 25px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(0, 0, 0, 0.1);
        }

        .section h2 {
            color: #4a5568;
            font-size: 1.4rem;
            margin-bottom: 20px;
        }

        table {
            width: 100%;
            border-collapse: collapse;
            font-size: 0.92rem;
        }

        th {
            text-align: left;
            color: #718096;
            text-transform: uppercase;
            font-size: 0.78rem;
            letter-spacing: 0.5px;
            padding: 10px 12px;
            border-bottom: 2px solid #e2e8f0;
        }

        td {
            padding: 10px 12px;
            border-bottom: 1px solid #edf2f7;
            color: #2d3748;
        }

        tr:hover td {
            background: #f7fafc;
        }

        .mono {
            font-family: 'Consolas', 'Monaco', monospace;
        }

        .badge {
            padding: 3px 10px;
            border-radius: 12px;
            font-size: 0.78rem;
            font-weight: 600;
            text-transform: uppercase;
        }

        .badge.pure_null { background: #edf2f7; color: #718096; }
        .badge.sparse { background: #fef5e7; color: #d69e2e; }
        .badge.structured { background: #c6f6d5; color: #38a169; }
        .badge.unknown { background: #fed7d7; color: #c53030; }
        .badge.cycle { background: #feebc8; color: #dd6b20; }
        .badge.linear { background: #c6f6d5; color: #38a169; }

        .footer {
            text-align: center;
            padding: 30px;
            color: rgba(255, 255, 255, 0.8);
            font-size: 0.9rem;
        }

        @media (max-width: 768px) {
            .container {
                padding: 10px;
            }

            .header h1 {
                font-size: 1.6rem;
            }

            .stats-grid {
                grid-template-columns: repeat(auto-fit, minmax(160px, 1fr));
            }
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <p>Generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM"}} | Run: {{.Report.RunID}} | File: {{.Report.File}} ({{.Report.Size}} bytes)</p>
        </div>

        <div class="stats-grid">
            <div class="stat-card">
                <h3>Text Regions</h3>
                <div class="value">{{len .Report.Regions.Regions}}</div>
                <div class="label">{{printf "%.1f" .CoveragePercent}}% coverage</div>
            </div>
            <div class="stat-card">
                <h3>Gaps</h3>
                <div class="value">{{len .Report.Gaps}}</div>
                <div class="label">Classified Intervals</div>
            </div>
            <div class="stat-card">
                <h3>Pointer Candidates</h3>
                <div class="value">{{.Report.Pointers.NodeCount}}</div>
                <div class="label">{{.Report.Pointers.EdgeCount}} edges</div>
            </div>
            <div class="stat-card">
                <h3>Recovered Strings</h3>
                <div class="value">{{len .Report.LenPrefixed}}</div>
                <div class="label">Length-Prefixed</div>
            </div>
            <div class="stat-card">
                <h3>Rule Records</h3>
                <div class="value">{{len .Report.Rules.Records}}</div>
                <div class="label">{{len .Report.Correlation.Matches}} correlated</div>
            </div>
        </div>

        <div class="section">
            <h2>Gap Classification</h2>
            <table>
                <tr><th>Start</th><th>End</th><th>Size</th><th>Class</th><th>Entropy</th><th>Null Ratio</th><th>Magic</th></tr>
                {{range .Report.Gaps}}
                <tr>
                    <td class="mono">0x{{printf "%x" .Start}}</td>
                    <td class="mono">0x{{printf "%x" .End}}</td>
                    <td>{{.Len}}</td>
                    <td><span class="badge {{.Class}}">{{.Class}}</span></td>
                    <td>{{printf "%.2f" .Entropy}}</td>
                    <td>{{printf "%.2f" .NullRatio}}</td>
                    <td>{{range .Magic}}{{.}} {{end}}</td>
                </tr>
                {{end}}
            </table>
        </div>

        <div class="section">
            <h2>Pointer Chains</h2>
            <table>
                <tr><th>Kind</th><th>Depth</th><th>Start</th><th>Final Target</th></tr>
                {{range .Report.Pointers.Chains}}
                <tr>
                    <td><span class="badge {{.Kind}}">{{.Kind}}</span></td>
                    <td>{{.Depth}}</td>
                    <td class="mono">0x{{printf "%x" (index .Offsets 0)}}</td>
                    <td class="mono">0x{{printf "%x" .FinalTarget}}</td>
                </tr>
                {{end}}
            </table>
        </div>

        <div class="section">
            <h2>Rule Records</h2>
            <table>
                <tr><th>#</th><th>Title</th><th>Range</th><th>Emails</th><th>Keywords</th></tr>
                {{range $i, $r := .Report.Rules.Records}}
                <tr>
                    <td>{{$i}}</td>
                    <td>{{$r.Title}}</td>
                    <td class="mono">0x{{printf "%x" $r.StartOffset}}-0x{{printf "%x" $r.EndOffset}}</td>
                    <td>{{range $r.Emails}}{{.}} {{end}}</td>
                    <td>{{len $r.Keywords}}</td>
                </tr>
                {{end}}
            </table>
        </div>

        <div class="section">
            <h2>Evidence Correlation</h2>
            <table>
                <tr><th>Rule</th><th>Evidence</th><th>Score</th></tr>
                {{range .Report.Correlation.Matches}}
                <tr>
                    <td>{{.RuleIndex}}</td>
                    <td>{{.EvidenceIndex}}</td>
                    <td>{{.Score}}</td>
                </tr>
                {{end}}
            </table>
        </div>
    </div>

    <div class="footer">
        <p>&copy; 2026 Akaylee RuleMiner - Binary Structure Inference Toolkit</p>
    </div>
</body>
</html>`
